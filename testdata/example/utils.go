package main

import "math"

// MathUtils bundles float helpers used by the calculator
type MathUtils struct{}

// Abs returns the absolute value of x
func (mu *MathUtils) Abs(x float64) float64 {
	return math.Abs(x)
}

// Clamp bounds x to the range [lo, hi]
func (mu *MathUtils) Clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// Mean returns the arithmetic mean of values, or zero for no values
func Mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Factorial computes n! recursively
func Factorial(n int) int {
	if n <= 1 {
		return 1
	}
	return n * Factorial(n-1)
}
