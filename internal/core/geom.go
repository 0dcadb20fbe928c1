// Package core provides fundamental types and utilities shared by the ride
// simulation and its hosts. It contains no external dependencies (especially
// no Bubble Tea) to keep simulation logic pure and testable.
package core

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Clamp restricts an int to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Ratio returns num/den clamped to [0, 1]. A non-positive denominator yields 0.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return ClampF(num/den, 0, 1)
}
