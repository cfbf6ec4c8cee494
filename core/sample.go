package core

// CalculateSampleSize maps an intrinsic size and a target size to an integer
// downsampling factor.  Pure and deterministic.
//
// The factor starts at 1 and, when the source exceeds the target in either
// axis, doubles while both halved axes divided by the factor still cover the
// target.  The reduction is conservative: after dividing by the result the
// decoded image is at least as large as the target in both dimensions, so it
// favours slight oversampling over undersampling.  The result is always a
// power of two and >= 1.
//
// Non-positive target axes are treated as "no downsampling": with a zero
// target the halving loop's comparison never turns false in integer
// arithmetic, so the guard lives here rather than in every caller.  An
// un-laid-out target therefore decodes at full resolution.
func CalculateSampleSize(intrinsic, target Dimensions) int {
	factor := 1
	if target.Width <= 0 || target.Height <= 0 {
		return factor
	}
	if intrinsic.Height > target.Height || intrinsic.Width > target.Width {
		halfHeight := intrinsic.Height / 2
		halfWidth := intrinsic.Width / 2
		for halfHeight/factor >= target.Height && halfWidth/factor >= target.Width {
			factor *= 2
		}
	}
	return factor
}
