// Package utils contains small scalar helpers shared across the packages.
package utils

import (
	"math"
)

// Float64AlmostEqual compares two float64s within an epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Clamp limits v to the interval [low, high].
func Clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// MaxF returns the larger of two float64s.
func MaxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// MinF returns the smaller of two float64s.
func MinF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
