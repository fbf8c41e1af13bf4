package interpreter

import (
	"math"
	"strings"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/runtime"
)

func (ex *execution) evalExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.Number(n.Value), nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.CharLiteral:
		return runtime.Number(float64(n.Value)), nil
	case *ast.Identifier:
		return ex.stack.Get(n.Name), nil
	case *ast.InitializerList:
		arr := runtime.NewArray(len(n.Elements))
		for idx, el := range n.Elements {
			v, err := ex.evalExpression(el)
			if err != nil {
				return nil, err
			}
			arr.Elements[idx] = v
		}
		return arr, nil
	case *ast.BinaryExpression:
		return ex.evalBinary(n)
	case *ast.UnaryExpression:
		return ex.evalUnary(n)
	case *ast.UpdateExpression:
		return ex.evalUpdate(n)
	case *ast.Assignment:
		return ex.evalAssignment(n)
	case *ast.ArrayAccess:
		arr, idx, err := ex.element(n)
		if err != nil {
			return nil, err
		}
		if s, ok := arr.(runtime.StringValue); ok {
			return runtime.Number(float64(s.Val[idx])), nil
		}
		return arr.(*runtime.ArrayValue).Elements[idx], nil
	case *ast.FunctionCall:
		return ex.evalCall(n)
	case nil:
		return nil, newRuntimeError(ErrUnsupportedNode, nil, "missing expression")
	}
	return nil, newRuntimeError(ErrUnsupportedNode, node, "cannot evaluate %s", node.NodeType())
}

func (ex *execution) number(val runtime.Value, node ast.Node) (float64, error) {
	f, err := runtime.ToNumber(val)
	if err != nil {
		return 0, newRuntimeError(ErrTypeMismatch, node, "%s", err.Error())
	}
	return f, nil
}

func (ex *execution) evalBinary(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := ex.evalExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "&&":
		if !runtime.Truthy(left) {
			return runtime.Bool(false), nil
		}
		right, err := ex.evalExpression(expr.Right)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(runtime.Truthy(right)), nil
	case "||":
		if runtime.Truthy(left) {
			return runtime.Bool(true), nil
		}
		right, err := ex.evalExpression(expr.Right)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(runtime.Truthy(right)), nil
	}
	right, err := ex.evalExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	return ex.applyBinary(expr.Operator, left, right, expr)
}

// applyBinary implements the program-mode operators. Division and modulo
// truncate toward zero.
func (ex *execution) applyBinary(op string, left, right runtime.Value, node ast.Node) (runtime.Value, error) {
	switch op {
	case "==":
		return runtime.Bool(runtime.Equal(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.Equal(left, right)), nil
	}

	ls, lStr := left.(runtime.StringValue)
	rs, rStr := right.(runtime.StringValue)
	if op == "+" && (lStr || rStr) {
		return runtime.StringValue{Val: runtime.Stringify(left) + runtime.Stringify(right)}, nil
	}
	if lStr && rStr {
		switch op {
		case "<":
			return runtime.Bool(ls.Val < rs.Val), nil
		case ">":
			return runtime.Bool(ls.Val > rs.Val), nil
		case "<=":
			return runtime.Bool(ls.Val <= rs.Val), nil
		case ">=":
			return runtime.Bool(ls.Val >= rs.Val), nil
		}
	}

	l, err := ex.number(left, node)
	if err != nil {
		return nil, err
	}
	r, err := ex.number(right, node)
	if err != nil {
		return nil, err
	}
	switch op {
	case "+":
		return runtime.Number(l + r), nil
	case "-":
		return runtime.Number(l - r), nil
	case "*":
		return runtime.Number(l * r), nil
	case "/":
		if r == 0 {
			return nil, newRuntimeError(ErrDivisionByZero, node, "division by zero")
		}
		return runtime.Number(math.Trunc(l / r)), nil
	case "%":
		if r == 0 {
			return nil, newRuntimeError(ErrDivisionByZero, node, "modulo by zero")
		}
		return runtime.Number(math.Trunc(math.Mod(l, r))), nil
	case "^":
		return runtime.Number(math.Pow(l, r)), nil
	case "<":
		return runtime.Bool(l < r), nil
	case ">":
		return runtime.Bool(l > r), nil
	case "<=":
		return runtime.Bool(l <= r), nil
	case ">=":
		return runtime.Bool(l >= r), nil
	}
	return nil, newRuntimeError(ErrUnknownOperator, node, "unknown operator '%s'", op)
}

func (ex *execution) evalUnary(expr *ast.UnaryExpression) (runtime.Value, error) {
	if expr.Operator == ast.UnaryAddressOf {
		return ex.reference(expr.Operand)
	}
	val, err := ex.evalExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryNot:
		return runtime.Bool(!runtime.Truthy(val)), nil
	case ast.UnaryDereference:
		return ex.dereference(val, expr).Load()
	case ast.UnaryNegate, ast.UnaryPlus:
		f, err := ex.number(val, expr)
		if err != nil {
			return nil, err
		}
		if expr.Operator == ast.UnaryNegate {
			f = -f
		}
		return runtime.Number(f), nil
	}
	return nil, newRuntimeError(ErrUnknownOperator, expr, "unknown unary operator '%s'", expr.Operator)
}

// reference evaluates the operand of '&'.
func (ex *execution) reference(operand ast.Expression) (runtime.Value, error) {
	switch target := operand.(type) {
	case *ast.Identifier:
		frame, ok := ex.stack.Resolve(target.Name)
		if !ok {
			frame = ex.stack.Current()
			frame.Define(target.Name, runtime.Number(0))
		}
		return runtime.ReferenceValue{Frame: frame, Name: target.Name}, nil
	case *ast.ArrayAccess:
		arr, idx, err := ex.element(target)
		if err != nil {
			return nil, err
		}
		array, ok := arr.(*runtime.ArrayValue)
		if !ok {
			return nil, newRuntimeError(ErrInvalidReference, target, "cannot take the address of a string character")
		}
		return runtime.ReferenceValue{Array: array, Index: idx}, nil
	}
	return nil, newRuntimeError(ErrInvalidReference, operand, "cannot take the address of %s", operand.NodeType())
}

// slot is a readable and writable location.
type slot interface {
	Load() (runtime.Value, error)
	Store(runtime.Value) error
}

type failedSlot struct{ err error }

func (s failedSlot) Load() (runtime.Value, error) { return nil, s.err }
func (s failedSlot) Store(runtime.Value) error    { return s.err }

// dereference resolves the location behind '*val'. An array dereferences to
// its first element.
func (ex *execution) dereference(val runtime.Value, node ast.Node) slot {
	switch v := val.(type) {
	case runtime.ReferenceValue:
		return refSlot{ref: v, node: node}
	case *runtime.ArrayValue:
		return refSlot{ref: runtime.ReferenceValue{Array: v, Index: 0}, node: node}
	}
	return failedSlot{err: newRuntimeError(ErrInvalidReference, node, "cannot dereference a %s value", kindOf(val))}
}

type refSlot struct {
	ref  runtime.ReferenceValue
	node ast.Node
}

func (s refSlot) Load() (runtime.Value, error) {
	v, err := s.ref.Load()
	if err != nil {
		return nil, newRuntimeError(ErrIndexOutOfRange, s.node, "%s", err.Error())
	}
	return v, nil
}

func (s refSlot) Store(val runtime.Value) error {
	if err := s.ref.Store(val); err != nil {
		return newRuntimeError(ErrIndexOutOfRange, s.node, "%s", err.Error())
	}
	return nil
}

type variableSlot struct {
	stack *runtime.CallStack
	name  string
}

func (s variableSlot) Load() (runtime.Value, error) { return s.stack.Get(s.name), nil }

func (s variableSlot) Store(val runtime.Value) error {
	s.stack.Assign(s.name, val)
	return nil
}

type elementSlot struct {
	array *runtime.ArrayValue
	index int
}

func (s elementSlot) Load() (runtime.Value, error) { return s.array.Elements[s.index], nil }

func (s elementSlot) Store(val runtime.Value) error {
	s.array.Elements[s.index] = val
	return nil
}

// target resolves an assignment target to its storage location.
func (ex *execution) target(node ast.AssignmentTarget) (slot, error) {
	switch t := node.(type) {
	case *ast.Identifier:
		return variableSlot{stack: ex.stack, name: t.Name}, nil
	case *ast.ArrayAccess:
		arr, idx, err := ex.element(t)
		if err != nil {
			return nil, err
		}
		array, ok := arr.(*runtime.ArrayValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, t, "cannot assign to a character of string '%s'", t.Array.Name)
		}
		return elementSlot{array: array, index: idx}, nil
	case *ast.UnaryExpression:
		if t.Operator == ast.UnaryDereference {
			val, err := ex.evalExpression(t.Operand)
			if err != nil {
				return nil, err
			}
			return ex.dereference(val, t), nil
		}
	}
	return nil, newRuntimeError(ErrInvalidReference, node, "cannot assign to %s", node.NodeType())
}

// element evaluates a subscript and checks its bounds. The returned container
// is either *runtime.ArrayValue or runtime.StringValue.
func (ex *execution) element(access *ast.ArrayAccess) (runtime.Value, int, error) {
	container := ex.stack.Get(access.Array.Name)
	if ref, ok := container.(runtime.ReferenceValue); ok {
		v, err := ref.Load()
		if err != nil {
			return nil, 0, newRuntimeError(ErrIndexOutOfRange, access, "%s", err.Error())
		}
		container = v
	}
	idxVal, err := ex.evalExpression(access.Index)
	if err != nil {
		return nil, 0, err
	}
	f, err := ex.number(idxVal, access.Index)
	if err != nil {
		return nil, 0, err
	}
	var length int
	switch c := container.(type) {
	case *runtime.ArrayValue:
		length = len(c.Elements)
	case runtime.StringValue:
		length = len(c.Val)
	default:
		return nil, 0, newRuntimeError(ErrTypeMismatch, access, "'%s' is not an array", access.Array.Name)
	}
	if math.IsNaN(f) || f < 0 || f >= float64(length) {
		return nil, 0, newRuntimeError(ErrIndexOutOfRange, access, "index %s out of range for '%s' of length %d", runtime.FormatNumber(f), access.Array.Name, length)
	}
	return container, int(f), nil
}

func (ex *execution) evalUpdate(expr *ast.UpdateExpression) (runtime.Value, error) {
	loc, err := ex.target(expr.Target)
	if err != nil {
		return nil, err
	}
	old, err := loc.Load()
	if err != nil {
		return nil, err
	}
	f, err := ex.number(old, expr)
	if err != nil {
		return nil, err
	}
	next := f + 1
	if expr.Operator == "--" {
		next = f - 1
	}
	if err := loc.Store(runtime.Number(next)); err != nil {
		return nil, err
	}
	if expr.Prefix {
		return runtime.Number(next), nil
	}
	return runtime.Number(f), nil
}

func (ex *execution) evalAssignment(assign *ast.Assignment) (runtime.Value, error) {
	value, err := ex.evalExpression(assign.Value)
	if err != nil {
		return nil, err
	}
	loc, err := ex.target(assign.Target)
	if err != nil {
		return nil, err
	}
	if op, compound := assign.Operator.BinaryOperator(); compound {
		current, err := loc.Load()
		if err != nil {
			return nil, err
		}
		if value, err = ex.applyBinary(op, current, value, assign); err != nil {
			return nil, err
		}
	}
	if err := loc.Store(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (ex *execution) evalCall(call *ast.FunctionCall) (runtime.Value, error) {
	name := call.Callee.Name
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		v, err := ex.evalExpression(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if name == ex.opts.OutputFunction {
		ex.emit(args)
		return runtime.Number(0), nil
	}
	fn, ok := ex.functions[name]
	if !ok {
		return nil, newRuntimeError(ErrUndefinedFunction, call, "undefined function '%s'", name)
	}
	// A call leaves the caller's view of globals exactly as it found it.
	global := ex.stack.Global()
	saved := global.Snapshot()
	val, _, err := ex.invoke(fn, args, call)
	global.Restore(saved)
	return val, err
}

// invoke runs fn in a fresh frame. The frame is returned even on failure so
// callers can inspect the locals it reached.
func (ex *execution) invoke(fn *runtime.FunctionValue, args []runtime.Value, at ast.Node) (runtime.Value, *runtime.Frame, error) {
	def := fn.Definition
	name := def.Name.Name
	if len(args) != len(def.Params) {
		return nil, nil, newRuntimeError(ErrArityMismatch, at, "function '%s' expects %d argument(s), got %d", name, len(def.Params), len(args))
	}
	if ex.stack.Depth() >= ex.opts.MaxCallDepth {
		return nil, nil, newRuntimeError(ErrCallDepthExceeded, at, "call depth limit of %d exceeded calling '%s'", ex.opts.MaxCallDepth, name)
	}

	frame := ex.stack.Push(name)
	defer ex.stack.Pop()
	for idx, param := range def.Params {
		frame.Define(param.Name.Name, args[idx])
	}
	ex.log.Debug("call", "function", name, "depth", ex.stack.Depth())

	err := ex.execStatements(def.Body.Body)
	switch sig := err.(type) {
	case nil:
		return runtime.Number(0), frame, nil
	case returnSignal:
		return sig.value, frame, nil
	case breakSignal, continueSignal:
		return nil, frame, ex.topLevel(err)
	}
	return nil, frame, err
}

// emit appends one output line for a call to the output function.
func (ex *execution) emit(args []runtime.Value) {
	var (
		line      string
		formatted bool
	)
	if len(args) > 0 {
		if format, ok := args[0].(runtime.StringValue); ok && strings.Contains(format.Val, "%") {
			line, formatted = formatPrintf(format.Val, args[1:]), true
		}
	}
	if !formatted {
		parts := make([]string, len(args))
		for idx, arg := range args {
			parts[idx] = runtime.Stringify(arg)
		}
		line = strings.Join(parts, " ")
	}
	ex.output = append(ex.output, strings.TrimSuffix(line, "\n"))
}

func kindOf(v runtime.Value) string {
	if v == nil {
		return "missing"
	}
	return v.Kind().String()
}
