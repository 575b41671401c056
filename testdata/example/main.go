package main

import (
	"fmt"
	"log"
)

func main() {
	calc := NewCalculator(10)
	fmt.Println(calc)

	calc.Add(5)
	calc.Multiply(2)
	if _, err := calc.Divide(0); err != nil {
		log.Printf("divide failed: %v", err)
	}
	calc.Reset()

	proc := NewBasicProcessor(Addition)
	sum, err := proc.Process(Mean(1, 2, 3), 20)
	if err != nil {
		log.Printf("process failed: %v", err)
	}
	fmt.Printf("sum: %.2f\n", sum)

	utils := &MathUtils{}
	fmt.Printf("clamped: %.2f\n", utils.Clamp(utils.Abs(-7.5), 0, 5))
	fmt.Printf("5! = %d\n", Factorial(5))
}
