package core

// Deliver marshals outcome onto target's owning context and applies it there.
// Exactly one call is made per request, for every outcome kind: a NoOp still
// posts, so the consumer observes one delivery attempt per request, it just
// applies nothing.  Deliver itself never touches the surface; mutation
// happens only inside the posted closure.
func Deliver(target Target, outcome Outcome) {
	target.Post(func() {
		switch outcome.Kind {
		case OutcomeSuccess:
			target.SetImage(outcome.Image)
		case OutcomeFallback:
			target.SetPlaceholder(outcome.Placeholder)
		case OutcomeNoOp:
			// Target stays in whatever state it already had.
		}
	})
}
