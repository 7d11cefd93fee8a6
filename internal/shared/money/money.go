package money

import "math"

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
// Derived figures are rounded exactly once, at the end of their computation;
// rounding intermediates would compound the error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
