package jobmatrix

import (
	"math"

	"github.com/katalvlaran/cimatrix/axis"
)

// Source is a stream of uniform draws in [0,1).
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// drawIndex picks a value index of a proportionally to weight.
// Zero-weight values are never drawn unless every weight is zero, in which
// case the draw is uniform over the axis.
// Exactly one draw is consumed from src.
// Complexity: O(n).
func drawIndex(src Source, a *axis.Axis) int {
	n := a.Len()
	u := clampUnit(src.Float64())
	total := a.TotalWeight()
	if total <= 0 {
		i := int(u * float64(n))
		if i >= n {
			i = n - 1
		}

		return i
	}

	r := u * total
	last := -1
	for i := 0; i < n; i++ {
		w := a.At(i).Weight
		if w == 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}

	// Rounding left r ≥ 0 after the last positive weight.
	return last
}

// clampUnit forces u into [0,1) so a misbehaving Source cannot index
// outside an axis.
func clampUnit(u float64) float64 {
	switch {
	case math.IsNaN(u) || u < 0:
		return 0
	case u >= 1:
		return math.Nextafter(1, 0)
	default:
		return u
	}
}
