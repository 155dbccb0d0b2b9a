// Package operation parses the operand text of an OPERATION message into a
// typed arithmetic instruction.
package operation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Operator uint8

const (
	Add Operator = iota
	Sub
	Mul
	Div
)

// Operation is an arithmetic instruction against the shared register. The
// operand is an unsigned 8-bit value; the register arithmetic wraps at the
// same width.
type Operation struct {
	Op      Operator
	Operand uint8
}

var (
	ErrArity          = errors.New("expected 2 arguments")
	ErrDivisionByZero = errors.New("division by zero")
)

// Parse decodes text of the form "<operator> <operand>" where the operator
// is one of + - * / and the operand fits in a uint8. Division by zero is
// rejected here, before an Operation is ever constructed, so the register
// never sees a zero divisor.
//
// Error texts are client-visible: the underlying strconv failure is kept
// verbatim so the peer learns the precise cause.
func Parse(text string) (Operation, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 2 {
		return Operation{}, ErrArity
	}

	n, err := strconv.ParseUint(tokens[1], 10, 8)
	if err != nil {
		detail := err.Error()
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			detail = numErr.Err.Error()
		}
		return Operation{}, fmt.Errorf("parsing error: invalid integer: %s", detail)
	}
	operand := uint8(n)

	switch tokens[0] {
	case "+":
		return Operation{Op: Add, Operand: operand}, nil
	case "-":
		return Operation{Op: Sub, Operand: operand}, nil
	case "*":
		return Operation{Op: Mul, Operand: operand}, nil
	case "/":
		if operand == 0 {
			return Operation{}, ErrDivisionByZero
		}
		return Operation{Op: Div, Operand: operand}, nil
	default:
		return Operation{}, fmt.Errorf("parsing error: unknown operation: %s", tokens[0])
	}
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	default:
		return "/"
	}
}
