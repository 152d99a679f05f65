package inference

import (
	"fmt"
	"math"
	"sort"

	"regsim/domain/core"
)

// Percentile returns the p-th percentile (0 <= p <= 100) of values using
// linear interpolation between the order statistics at floor and ceil of
// p/100*(n-1). values is not modified.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, core.NewMissingStateError("no values to take a percentile of")
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, core.NewInvalidParameterError("percentile", fmt.Sprintf("must be within [0,100], got %g", p))
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p), nil
}

// percentileSorted assumes sorted is non-empty, ascending and 0 <= p <= 100
func percentileSorted(sorted []float64, p float64) float64 {
	last := len(sorted) - 1
	rank := p / 100 * float64(last)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > last {
		hi = last
	}
	if lo >= hi {
		return sorted[hi]
	}
	return lerp(sorted[lo], sorted[hi], rank-float64(lo))
}

// lerp interpolates from the nearer endpoint so the result stays within [a, b]
func lerp(a, b, t float64) float64 {
	diff := b - a
	if t >= 0.5 {
		return b - diff*(1-t)
	}
	return a + diff*t
}
