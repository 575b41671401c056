package main

import "fmt"

// Calculator accumulates the result of a chain of arithmetic operations
type Calculator struct {
	Value float64
}

// NewCalculator creates a Calculator starting at the given value
func NewCalculator(value float64) *Calculator {
	return &Calculator{Value: value}
}

// Add adds x to the accumulated value
func (c *Calculator) Add(x float64) float64 {
	c.Value += x
	return c.Value
}

// Subtract subtracts x from the accumulated value
func (c *Calculator) Subtract(x float64) float64 {
	c.Value -= x
	return c.Value
}

// Multiply multiplies the accumulated value by x
func (c *Calculator) Multiply(x float64) float64 {
	c.Value *= x
	return c.Value
}

// Divide divides the accumulated value by x
func (c *Calculator) Divide(x float64) (float64, error) {
	if x == 0 {
		return 0, ErrDivisionByZero
	}
	c.Value /= x
	return c.Value, nil
}

// Reset clears the accumulated value
func (c *Calculator) Reset() {
	c.Value = 0
}

// String renders the calculator state
func (c *Calculator) String() string {
	return fmt.Sprintf("Calculator{Value: %.2f}", c.Value)
}
