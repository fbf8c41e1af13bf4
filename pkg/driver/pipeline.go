package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/crosscheck"
	"github.com/vishnuhala/parse-and-fix/pkg/evaluator"
	"github.com/vishnuhala/parse-and-fix/pkg/interpreter"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
	"github.com/vishnuhala/parse-and-fix/pkg/logging"
	"github.com/vishnuhala/parse-and-fix/pkg/parser"
)

// Options configures one pipeline run.
type Options struct {
	Interpreter interpreter.Options
	// CrossCheck attaches a tree-sitter verdict to program-mode input.
	CrossCheck bool
	// Checker is reused when set; otherwise a checker is created per run.
	Checker *crosscheck.Checker
	Logger  *slog.Logger
}

// Outcome collects what every stage produced. Stages after a failing one
// are left empty.
type Outcome struct {
	Source    string
	Tokens    []lexer.Token
	Parse     parser.ParseResult
	Mode      parser.Mode
	Value     *float64
	EvalErr   error
	Execution *interpreter.ExecutionResult
	Reference *crosscheck.Report
	// ReferenceErr records a crosscheck that could not run.
	ReferenceErr error
}

// Failed reports whether any stage failed.
func (o *Outcome) Failed() bool {
	if !o.Parse.Success || o.EvalErr != nil {
		return true
	}
	return o.Execution != nil && o.Execution.Err != nil
}

// Diagnostics renders every failure as one human-readable line.
func (o *Outcome) Diagnostics() []string {
	var lines []string
	for _, perr := range o.Parse.Errors {
		line := fmt.Sprintf("%s: %s", perr.Code, perr.Error())
		if perr.Suggestion != "" {
			line += " (fix: " + perr.Suggestion + ")"
		}
		lines = append(lines, line)
	}
	if o.EvalErr != nil {
		lines = append(lines, "evaluation error: "+o.EvalErr.Error())
	}
	if o.Execution != nil && o.Execution.Err != nil {
		lines = append(lines, "runtime error: "+o.Execution.ErrorMessage())
	}
	if o.ReferenceErr != nil {
		lines = append(lines, "crosscheck unavailable: "+o.ReferenceErr.Error())
	}
	if ref := o.Reference; ref != nil {
		switch {
		case !ref.Accepted:
			lines = append(lines, "crosscheck: "+ref.Message)
		case !o.Parse.Success:
			lines = append(lines, "crosscheck: the C grammar accepts this input")
		}
	}
	return lines
}

// Run routes source through the lexer, the parser and then either the
// evaluator (bare expressions) or the interpreter (programs).
func Run(source string, opts Options) *Outcome {
	return RunContext(context.Background(), source, opts)
}

// RunContext is Run with cancellation passed to the interpreter.
func RunContext(ctx context.Context, source string, opts Options) *Outcome {
	log := logging.OrDiscard(opts.Logger)
	out := &Outcome{Source: source}
	out.Tokens = lexer.Tokenize(source)
	out.Parse = parser.ParseTokens(out.Tokens)
	out.Mode = out.Parse.Mode
	log.Debug("parsed", "mode", out.Mode, "tokens", len(out.Tokens), "success", out.Parse.Success)

	if opts.CrossCheck && out.Mode == parser.ModeProgram {
		out.Reference, out.ReferenceErr = reference(source, opts.Checker)
		if out.Reference != nil {
			log.Debug("crosscheck", "accepted", out.Reference.Accepted, "offset", out.Reference.Offset)
		}
	}

	if !out.Parse.Success {
		return out
	}

	switch tree := out.Parse.Tree.(type) {
	case *ast.Program:
		log.Debug("route", "stage", "interpreter")
		iopts := opts.Interpreter
		if iopts.Logger == nil {
			iopts.Logger = log
		}
		out.Execution = interpreter.New(iopts).ExecuteContext(ctx, tree)
	default:
		log.Debug("route", "stage", "evaluator")
		val, err := evaluator.EvaluateArithmetic(tree)
		if err != nil {
			out.EvalErr = err
		} else {
			out.Value = &val
		}
	}
	return out
}

func reference(source string, checker *crosscheck.Checker) (*crosscheck.Report, error) {
	if checker != nil {
		return checker.Check(source)
	}
	return crosscheck.Check(source)
}
