package interpreter

import (
	"errors"
	"fmt"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/evaluator"
	"github.com/vishnuhala/parse-and-fix/pkg/runtime"
)

// Arithmetic failures share their sentinels with the evaluator so callers can
// test either pipeline with the same errors.Is check.
var (
	ErrDivisionByZero  = evaluator.ErrDivisionByZero
	ErrUnsupportedNode = evaluator.ErrUnsupportedNode
	ErrUnknownOperator = evaluator.ErrUnknownOperator
)

var (
	ErrUndefinedFunction  = errors.New("undefined function")
	ErrStepLimitExceeded  = errors.New("step limit exceeded")
	ErrCallDepthExceeded  = errors.New("call depth exceeded")
	ErrArityMismatch      = errors.New("wrong number of arguments")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrArrayTooLarge      = errors.New("array too large")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrControlOutsideLoop = errors.New("control statement outside loop")
	ErrInternal           = errors.New("internal error")
)

// RuntimeError is a failure raised while executing a node. Kind is one of the
// package sentinels.
type RuntimeError struct {
	Kind    error
	Message string
	Offset  int
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

func newRuntimeError(kind error, node ast.Node, format string, args ...any) *RuntimeError {
	err := &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
	if node != nil {
		err.Offset = node.Offset()
	}
	return err
}

// Control flow travels up the Go call stack as these signal errors.

type breakSignal struct {
	node ast.Node
}

func (breakSignal) Error() string {
	return "break"
}

type continueSignal struct {
	node ast.Node
}

func (continueSignal) Error() string {
	return "continue"
}

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string {
	return "return"
}
