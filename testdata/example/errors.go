package main

// CalculatorError classifies calculator failures
type CalculatorError int

const (
	// ErrNone means no failure occurred
	ErrNone CalculatorError = iota
	// ErrDivisionByZero is returned when dividing by zero
	ErrDivisionByZero
	// ErrUnknownOperation is returned for an unrecognized operation
	ErrUnknownOperation
)

// Error returns a human-readable description of the failure
func (e CalculatorError) Error() string {
	switch e {
	case ErrNone:
		return "no error"
	case ErrDivisionByZero:
		return "division by zero"
	case ErrUnknownOperation:
		return "unknown operation"
	default:
		return "unclassified error"
	}
}
