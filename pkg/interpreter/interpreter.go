// Package interpreter executes program trees produced by the parser.
//
// Each Execute call owns its call stack, function table and output buffer;
// nothing is shared between calls. Execution is bounded by a step ceiling
// so a runaway loop ends in ErrStepLimitExceeded instead of hanging.
package interpreter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/logging"
	"github.com/vishnuhala/parse-and-fix/pkg/runtime"
)

const (
	DefaultMaxSteps       = 100000
	DefaultMaxCallDepth   = 200
	DefaultMaxArrayLength = 1 << 20
	DefaultOutputFunction = "printf"
)

// Options configures an Interpreter. Zero values select the defaults.
type Options struct {
	MaxSteps       int
	MaxCallDepth   int
	MaxArrayLength int
	OutputFunction string
	Logger         *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	if o.MaxArrayLength <= 0 {
		o.MaxArrayLength = DefaultMaxArrayLength
	}
	if o.OutputFunction == "" {
		o.OutputFunction = DefaultOutputFunction
	}
	o.Logger = logging.OrDiscard(o.Logger)
	return o
}

// ExecutionResult is everything one execution produced. Output and
// Variables reflect the state reached before any failure in Err.
type ExecutionResult struct {
	Output      []string                 `json:"output"`
	ReturnValue *float64                 `json:"returnValue,omitempty"`
	Variables   map[string]runtime.Value `json:"-"`
	Err         error                    `json:"-"`
	Steps       int                      `json:"steps"`
}

// ErrorMessage returns the failure text, or "" on success.
func (r *ExecutionResult) ErrorMessage() string {
	if r == nil || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Interpreter runs program trees with a fixed set of options.
type Interpreter struct {
	opts Options
}

// New returns an interpreter configured by opts.
func New(opts Options) *Interpreter {
	return &Interpreter{opts: opts.withDefaults()}
}

// ExecuteProgram runs root with default options.
func ExecuteProgram(root ast.Node) *ExecutionResult {
	return New(Options{}).Execute(root)
}

// Execute runs root without a deadline.
func (i *Interpreter) Execute(root ast.Node) *ExecutionResult {
	return i.ExecuteContext(context.Background(), root)
}

// ExecuteContext runs root, stopping early when ctx is done. It never panics;
// every failure is reported through the result's Err.
func (i *Interpreter) ExecuteContext(ctx context.Context, root ast.Node) (result *ExecutionResult) {
	ex := newExecution(ctx, i.opts)
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Kind: ErrInternal, Message: fmt.Sprintf("internal error: %v", r)}
		}
		result = ex.result(err)
		if err != nil {
			ex.log.Debug("execution failed", "error", err, "steps", ex.steps)
		}
	}()
	err = ex.run(root)
	return
}

// execution is the per-call runtime state.
type execution struct {
	ctx       context.Context
	opts      Options
	log       *slog.Logger
	stack     *runtime.CallStack
	functions map[string]*runtime.FunctionValue
	output    []string
	steps     int

	returnValue runtime.Value
	hasReturn   bool
	mainFrame   *runtime.Frame
}

func newExecution(ctx context.Context, opts Options) *execution {
	if ctx == nil {
		ctx = context.Background()
	}
	return &execution{
		ctx:       ctx,
		opts:      opts,
		log:       opts.Logger,
		stack:     runtime.NewCallStack(),
		functions: make(map[string]*runtime.FunctionValue),
		output:    make([]string, 0),
	}
}

func (ex *execution) run(root ast.Node) error {
	switch n := root.(type) {
	case nil:
		return newRuntimeError(ErrUnsupportedNode, nil, "nothing to execute")
	case *ast.Program:
		return ex.runProgram(n)
	case ast.Expression:
		val, err := ex.evalExpression(n)
		if err != nil {
			return err
		}
		ex.setReturn(val)
		return nil
	case ast.Statement:
		return ex.topLevel(ex.execStatement(n))
	}
	return newRuntimeError(ErrUnsupportedNode, root, "cannot execute %s", root.NodeType())
}

func (ex *execution) runProgram(prog *ast.Program) error {
	for _, stmt := range prog.Body {
		if err := ex.execStatement(stmt); err != nil {
			if ret, ok := err.(returnSignal); ok {
				ex.setReturn(ret.value)
				return nil
			}
			return ex.topLevel(err)
		}
	}

	main, ok := ex.functions["main"]
	if !ok {
		return nil
	}
	ex.log.Debug("invoking main")
	// Declared parameters such as argc/argv start at zero.
	args := make([]runtime.Value, len(main.Definition.Params))
	for idx := range args {
		args[idx] = runtime.Number(0)
	}
	val, frame, err := ex.invoke(main, args, main.Definition)
	ex.mainFrame = frame
	if err != nil {
		return err
	}
	ex.setReturn(val)
	return nil
}

// topLevel turns a stray loop signal into an error.
func (ex *execution) topLevel(err error) error {
	switch sig := err.(type) {
	case breakSignal:
		return newRuntimeError(ErrControlOutsideLoop, sig.node, "'break' outside of a loop or switch")
	case continueSignal:
		return newRuntimeError(ErrControlOutsideLoop, sig.node, "'continue' outside of a loop")
	case returnSignal:
		ex.setReturn(sig.value)
		return nil
	}
	return err
}

func (ex *execution) setReturn(val runtime.Value) {
	ex.returnValue = val
	ex.hasReturn = true
}

func (ex *execution) result(err error) *ExecutionResult {
	vars := ex.stack.Global().Snapshot()
	if ex.mainFrame != nil {
		maps.Copy(vars, ex.mainFrame.Snapshot())
	}
	res := &ExecutionResult{
		Output:    ex.output,
		Variables: vars,
		Err:       err,
		Steps:     ex.steps,
	}
	if ex.hasReturn {
		if f, convErr := runtime.ToNumber(ex.returnValue); convErr == nil {
			res.ReturnValue = &f
		}
	}
	return res
}

// step charges one unit against the step ceiling.
func (ex *execution) step(node ast.Node) error {
	ex.steps++
	if ex.steps > ex.opts.MaxSteps {
		ex.log.Debug("step limit reached", "max_steps", ex.opts.MaxSteps)
		return newRuntimeError(ErrStepLimitExceeded, node, "step limit of %d exceeded; the program may not terminate", ex.opts.MaxSteps)
	}
	if err := ex.ctx.Err(); err != nil {
		return fmt.Errorf("execution stopped: %w", err)
	}
	return nil
}
