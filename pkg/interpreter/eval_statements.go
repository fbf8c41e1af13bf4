package interpreter

import (
	"math"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/runtime"
)

func (ex *execution) execStatement(node ast.Statement) error {
	if node == nil {
		return nil
	}
	if err := ex.step(node); err != nil {
		return err
	}
	switch n := node.(type) {
	case ast.Expression:
		_, err := ex.evalExpression(n)
		return err
	case *ast.Declaration:
		return ex.execDeclaration(n)
	case *ast.FunctionDefinition:
		ex.functions[n.Name.Name] = &runtime.FunctionValue{Definition: n}
		return nil
	case *ast.Block:
		return ex.execStatements(n.Body)
	case *ast.IfStatement:
		return ex.execIf(n)
	case *ast.WhileLoop:
		return ex.execWhile(n)
	case *ast.DoWhileLoop:
		return ex.execDoWhile(n)
	case *ast.ForLoop:
		return ex.execFor(n)
	case *ast.SwitchStatement:
		return ex.execSwitch(n)
	case *ast.ReturnStatement:
		var val runtime.Value = runtime.Number(0)
		if n.Argument != nil {
			v, err := ex.evalExpression(n.Argument)
			if err != nil {
				return err
			}
			val = v
		}
		return returnSignal{value: val}
	case *ast.BreakStatement:
		return breakSignal{node: n}
	case *ast.ContinueStatement:
		return continueSignal{node: n}
	case *ast.PreprocessorDirective:
		return nil
	}
	return newRuntimeError(ErrUnsupportedNode, node, "cannot execute %s", node.NodeType())
}

// execStatements runs stmts in order, stopping at the first error or signal.
func (ex *execution) execStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := ex.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ex *execution) execDeclaration(decl *ast.Declaration) error {
	name := decl.Name.Name
	if !decl.IsArray {
		var val runtime.Value = runtime.Number(0)
		if decl.Initializer != nil {
			v, err := ex.evalExpression(decl.Initializer)
			if err != nil {
				return err
			}
			val = v
		}
		ex.stack.Define(name, val)
		return nil
	}

	list, isList := decl.Initializer.(*ast.InitializerList)
	if decl.Initializer != nil && !isList {
		// char s[] = "text" and similar keep the initializer value as-is.
		v, err := ex.evalExpression(decl.Initializer)
		if err != nil {
			return err
		}
		ex.stack.Define(name, v)
		return nil
	}

	length := 0
	if isList {
		length = len(list.Elements)
	}
	if decl.ArraySize != nil {
		sizeVal, err := ex.evalExpression(decl.ArraySize)
		if err != nil {
			return err
		}
		size, err := ex.number(sizeVal, decl.ArraySize)
		if err != nil {
			return err
		}
		if math.IsNaN(size) || size < 0 || size != math.Trunc(size) {
			return newRuntimeError(ErrIndexOutOfRange, decl.ArraySize, "invalid array size %s for '%s'", runtime.FormatNumber(size), name)
		}
		if size > float64(ex.opts.MaxArrayLength) {
			return newRuntimeError(ErrArrayTooLarge, decl.ArraySize, "array '%s' of size %s exceeds the limit of %d elements", name, runtime.FormatNumber(size), ex.opts.MaxArrayLength)
		}
		if isList && len(list.Elements) > int(size) {
			return newRuntimeError(ErrIndexOutOfRange, list, "too many initializers for '%s[%d]'", name, int(size))
		}
		length = int(size)
	}

	arr := runtime.NewArray(length)
	if isList {
		for idx, el := range list.Elements {
			v, err := ex.evalExpression(el)
			if err != nil {
				return err
			}
			arr.Elements[idx] = v
		}
	}
	ex.stack.Define(name, arr)
	return nil
}

func (ex *execution) condition(expr ast.Expression) (bool, error) {
	if expr == nil {
		return true, nil
	}
	val, err := ex.evalExpression(expr)
	if err != nil {
		return false, err
	}
	return runtime.Truthy(val), nil
}

func (ex *execution) execIf(stmt *ast.IfStatement) error {
	ok, err := ex.condition(stmt.Condition)
	if err != nil {
		return err
	}
	if ok {
		return ex.execStatement(stmt.Consequent)
	}
	return ex.execStatement(stmt.Alternative)
}

// loopBody runs one iteration. done reports a break; continue is consumed.
func (ex *execution) loopBody(body ast.Statement) (done bool, err error) {
	err = ex.execStatement(body)
	switch err.(type) {
	case nil:
		return false, nil
	case breakSignal:
		return true, nil
	case continueSignal:
		return false, nil
	}
	return true, err
}

func (ex *execution) execWhile(loop *ast.WhileLoop) error {
	for {
		if err := ex.step(loop); err != nil {
			return err
		}
		ok, err := ex.condition(loop.Condition)
		if err != nil || !ok {
			return err
		}
		if done, err := ex.loopBody(loop.Body); done || err != nil {
			return err
		}
	}
}

func (ex *execution) execDoWhile(loop *ast.DoWhileLoop) error {
	for {
		if err := ex.step(loop); err != nil {
			return err
		}
		if done, err := ex.loopBody(loop.Body); done || err != nil {
			return err
		}
		ok, err := ex.condition(loop.Condition)
		if err != nil || !ok {
			return err
		}
	}
}

func (ex *execution) execFor(loop *ast.ForLoop) error {
	if err := ex.execStatement(loop.Init); err != nil {
		return err
	}
	for {
		if err := ex.step(loop); err != nil {
			return err
		}
		ok, err := ex.condition(loop.Condition)
		if err != nil || !ok {
			return err
		}
		if done, err := ex.loopBody(loop.Body); done || err != nil {
			return err
		}
		if err := ex.execStatement(loop.Increment); err != nil {
			return err
		}
	}
}

// execSwitch evaluates the test once, then runs from the first matching case
// through the remaining cases until a break. The default body runs only when
// no case matched.
func (ex *execution) execSwitch(sw *ast.SwitchStatement) error {
	test, err := ex.evalExpression(sw.Test)
	if err != nil {
		return err
	}
	start := -1
	for idx, c := range sw.Cases {
		val, err := ex.evalExpression(c.Value)
		if err != nil {
			return err
		}
		if runtime.Equal(test, val) {
			start = idx
			break
		}
	}

	var runErr error
	if start >= 0 {
		for _, c := range sw.Cases[start:] {
			if runErr = ex.execStatements(c.Body); runErr != nil {
				break
			}
		}
	} else if sw.Default != nil {
		runErr = ex.execStatements(sw.Default)
	}
	if _, ok := runErr.(breakSignal); ok {
		return nil
	}
	return runErr
}
