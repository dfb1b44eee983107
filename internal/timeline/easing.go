package timeline

import "math"

// Ease maps linear progress to cubic in/out eased progress. Input outside
// [0,1] is clamped. Monotonic, symmetric about 0.5, Ease(0)=0, Ease(1)=1.
func Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}
