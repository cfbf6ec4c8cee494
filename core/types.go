package core

import (
	"context"
	"image"
	"time"
)

// Dimensions is the intrinsic width/height of a source image, discovered by a
// bounds probe and never mutated afterwards.
type Dimensions struct {
	Width  int
	Height int
}

// PlaceholderRef is an opaque handle to a caller-owned placeholder image.
// The loader never inspects it; it is handed back to the target verbatim when
// a load fails.
type PlaceholderRef interface{}

// Request is a single image load, immutable once submitted.  Build one
// through the root package's builder; it is consumed exactly once by the
// engine and produces exactly one delivery.
type Request struct {
	// ID correlates log lines and hook events for one request.
	ID string
	// URI of the image source.
	URI string
	// Placeholder is applied to the target when the load fails.  nil means
	// a failed load leaves the target untouched.
	Placeholder PlaceholderRef
	// Target dimensions, read from the target at build time.  Zero means
	// the axis is unconstrained and no downsampling is applied for it.
	TargetWidth  int
	TargetHeight int
	// Transform is an optional post-decode transform.  nil means none.
	Transform Transform
}

// OutcomeKind enumerates the three possible results of a request.
type OutcomeKind int

const (
	// OutcomeSuccess carries a decoded image for the target.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFallback means the load failed and a placeholder was configured.
	OutcomeFallback
	// OutcomeNoOp means the load failed and no placeholder was configured;
	// the target is left untouched.
	OutcomeNoOp
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFallback:
		return "fallback"
	case OutcomeNoOp:
		return "noop"
	}
	return "unknown"
}

// Outcome is the single result produced for a request.  Image is set for
// OutcomeSuccess, Placeholder for OutcomeFallback.
type Outcome struct {
	Kind        OutcomeKind
	Image       image.Image
	Placeholder PlaceholderRef
}

// Success wraps a decoded image.
func Success(img image.Image) Outcome { return Outcome{Kind: OutcomeSuccess, Image: img} }

// Fallback wraps the configured placeholder.
func Fallback(ref PlaceholderRef) Outcome { return Outcome{Kind: OutcomeFallback, Placeholder: ref} }

// NoOp is delivered when a load fails without a configured placeholder.
func NoOp() Outcome { return Outcome{Kind: OutcomeNoOp} }

// State is a request's position in its lifecycle.  A request moves
// Queued → Fetching → Probing → Decoding → Delivering → Done; any failure
// jumps straight to Delivering with a Fallback or NoOp outcome.  Done is
// terminal; there is no retry transition.
type State int

const (
	StateQueued State = iota
	StateFetching
	StateProbing
	StateDecoding
	StateDelivering
	StateDone
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateFetching:
		return "fetching"
	case StateProbing:
		return "probing"
	case StateDecoding:
		return "decoding"
	case StateDelivering:
		return "delivering"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Hook is an optional observer invoked around request lifecycle stages.
type Hook interface {
	BeforeStage(ctx context.Context, req *Request, state State)
	AfterStage(ctx context.Context, req *Request, state State, d time.Duration, err error)
}
