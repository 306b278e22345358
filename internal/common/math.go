package common

import "math"

// RoundTo rounds v to the given number of decimal places, half away from
// zero. All money values in the engine round through this helper.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PercentChange returns the percentage change from previous to current.
// A zero previous value yields 0 for zero current and 100 otherwise, never
// a division error.
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
