package main

// Operation identifies an arithmetic operation
type Operation int

const (
	// Addition adds two operands
	Addition Operation = iota
	// Subtraction subtracts the second operand from the first
	Subtraction
	// Multiplication multiplies two operands
	Multiplication
	// Division divides the first operand by the second
	Division
)

// String returns the operator symbol
func (op Operation) String() string {
	switch op {
	case Addition:
		return "+"
	case Subtraction:
		return "-"
	case Multiplication:
		return "*"
	case Division:
		return "/"
	default:
		return "?"
	}
}

// Processor applies an operation to a pair of operands
type Processor interface {
	Process(x, y float64) (float64, error)
}

// BasicProcessor is a Processor fixed to one operation
type BasicProcessor struct {
	operation Operation
}

// NewBasicProcessor creates a BasicProcessor for the given operation
func NewBasicProcessor(op Operation) *BasicProcessor {
	return &BasicProcessor{operation: op}
}

// Process applies the configured operation to x and y
func (bp *BasicProcessor) Process(x, y float64) (float64, error) {
	switch bp.operation {
	case Addition:
		return x + y, nil
	case Subtraction:
		return x - y, nil
	case Multiplication:
		return x * y, nil
	case Division:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	default:
		return 0, ErrUnknownOperation
	}
}
