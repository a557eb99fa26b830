package engine

import "math"

// normalize maps a raw metric into a [0,1] desirability score. Inside the
// range the score decays linearly with distance from the ideal; outside it
// decays linearly with distance from the nearest bound. Both slopes are scaled
// by the range width and floored at 0. Equal bounds short-circuit to a perfect
// score.
func normalize(value float64, r Range) float64 {
	if r.Min == r.Max {
		return 1.0
	}
	width := r.Max - r.Min
	switch {
	case value < r.Min:
		return math.Max(0, 1-(r.Min-value)/width)
	case value > r.Max:
		return math.Max(0, 1-(value-r.Max)/width)
	default:
		return math.Max(0, 1-math.Abs(value-r.Ideal)/width)
	}
}
