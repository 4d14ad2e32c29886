package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDivisionByZero is returned by Operator.Apply when dividing by zero.
var ErrDivisionByZero = errors.New("division by zero")

// Operator is a binary arithmetic operation waiting for its second operand.
type Operator int

const (
	None Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

var operatorNames = map[Operator]string{
	None:     "",
	Add:      "add",
	Subtract: "subtract",
	Multiply: "multiply",
	Divide:   "divide",
}

// String returns the ASCII symbol typed on a keyboard for o.
func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	default:
		return ""
	}
}

// Symbol returns the glyph printed on the button for o.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

// Name returns the long name of o, e.g. "add". None has an empty name.
func (o Operator) Name() string {
	return operatorNames[o]
}

// ParseOperator accepts keyboard symbols, button glyphs and long names.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add", "plus":
		return Add, nil
	case "-", "−", "sub", "subtract", "minus":
		return Subtract, nil
	case "*", "×", "x", "mul", "multiply", "times":
		return Multiply, nil
	case "/", "÷", "div", "divide":
		return Divide, nil
	}
	return None, fmt.Errorf("unknown operator %q", s)
}

// Apply computes a o b. Dividing by zero returns ErrDivisionByZero.
func (o Operator) Apply(a, b float64) (float64, error) {
	switch o {
	case Add:
		return a + b, nil
	case Subtract:
		return a - b, nil
	case Multiply:
		return a * b, nil
	case Divide:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("no operator pending")
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.Name()), nil
}

func (o *Operator) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*o = None
		return nil
	}
	op, err := ParseOperator(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
