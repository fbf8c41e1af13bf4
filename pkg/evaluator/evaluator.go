// Package evaluator folds arithmetic-only syntax trees into a number.
//
// It carries no variable context: identifiers and program structure are
// rejected. Division is real-valued.
package evaluator

import (
	"errors"
	"fmt"
	"math"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
)

var (
	ErrDivisionByZero           = errors.New("division by zero")
	ErrUnsupportedNode          = errors.New("unsupported node")
	ErrUnknownOperator          = errors.New("unknown operator")
	ErrIdentifierWithoutContext = errors.New("identifier without context")
)

// EvaluationError reports why a tree could not be folded. Kind is one of the
// package sentinels, so errors.Is works on the wrapped value.
type EvaluationError struct {
	Kind    error
	Message string
}

func (e *EvaluationError) Error() string {
	return e.Message
}

func (e *EvaluationError) Unwrap() error {
	return e.Kind
}

func fail(kind error, format string, args ...any) error {
	return &EvaluationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// EvaluateArithmetic computes the value of an expression tree built from
// number and char literals, + - * / % ^ and unary +/-.
func EvaluateArithmetic(node ast.Node) (float64, error) {
	switch n := node.(type) {
	case nil:
		return 0, fail(ErrUnsupportedNode, "cannot evaluate an empty tree")
	case *ast.NumberLiteral:
		return n.Value, nil
	case *ast.CharLiteral:
		return float64(n.Value), nil
	case *ast.Identifier:
		return 0, fail(ErrIdentifierWithoutContext, "cannot resolve identifier '%s' without a program context", n.Name)
	case *ast.UnaryExpression:
		operand, err := EvaluateArithmetic(n.Operand)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case ast.UnaryNegate:
			return -operand, nil
		case ast.UnaryPlus:
			return operand, nil
		}
		return 0, fail(ErrUnknownOperator, "unknown unary operator '%s'", n.Operator)
	case *ast.BinaryExpression:
		left, err := EvaluateArithmetic(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := EvaluateArithmetic(n.Right)
		if err != nil {
			return 0, err
		}
		return apply(n.Operator, left, right)
	}
	return 0, fail(ErrUnsupportedNode, "cannot evaluate %s as arithmetic", node.NodeType())
}

func apply(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fail(ErrDivisionByZero, "division by zero")
		}
		return left / right, nil
	case "%":
		if right == 0 {
			return 0, fail(ErrDivisionByZero, "modulo by zero")
		}
		return math.Mod(left, right), nil
	case "^":
		return math.Pow(left, right), nil
	}
	return 0, fail(ErrUnknownOperator, "unknown operator '%s'", op)
}
