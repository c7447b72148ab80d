package forest

import (
	"math"

	"github.com/mlindgren/sparserf/rferr"
)

// RatioOrCount represents a hyperparameter that accepts either an exact
// positive count or a fractional proportion in (0, 1], per spec.md §6. The
// zero value is invalid (Count <= 0 and Ratio <= 0), rather than silently
// picking a branch, so callers always go through NewCount/NewRatio.
type RatioOrCount struct {
	Count int
	Ratio float64
}

// NewCount builds a RatioOrCount that resolves to exactly n, regardless of
// upper bound.
func NewCount(n int) RatioOrCount { return RatioOrCount{Count: n} }

// NewRatio builds a RatioOrCount that resolves to round(f*upper), clamped
// into [1, upper]. f must be in (0, 1].
func NewRatio(f float64) RatioOrCount { return RatioOrCount{Ratio: f} }

// resolve turns r into an exact count against upper. Exact counts are used
// as given and are not clamped to upper: an integer max_samples greater
// than N is a legitimate (if wasteful) bootstrap size, and max_features as
// an exact count is already bounded per-node by min(max_features,
// available candidates) in the tree builder. Only the ratio branch is
// clamped, per spec.md §6.
func (r RatioOrCount) resolve(upper int) (int, error) {
	if r.Count > 0 {
		return r.Count, nil
	}
	if r.Ratio <= 0 || r.Ratio > 1 {
		return 0, rferr.Invalid("ratio %v outside (0, 1]", r.Ratio)
	}
	n := int(math.Round(r.Ratio * float64(upper)))
	if n < 1 {
		n = 1
	}
	if n > upper {
		n = upper
	}
	return n, nil
}
