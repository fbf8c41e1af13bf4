package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/crosscheck"
	"github.com/vishnuhala/parse-and-fix/pkg/driver"
	"github.com/vishnuhala/parse-and-fix/pkg/evaluator"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
	"github.com/vishnuhala/parse-and-fix/pkg/logging"
	"github.com/vishnuhala/parse-and-fix/pkg/parser"
	"github.com/vishnuhala/parse-and-fix/pkg/runtime"
)

const cliToolVersion = "parsefix 0.0.0-dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cli struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) == 0 {
		c.printUsage()
		return exitUsage
	}

	switch args[0] {
	case "--help", "-h", "help":
		c.printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(c.stdout, cliToolVersion)
		return exitOK
	case "tokens", "parse", "eval", "run", "check":
		return c.command(args[0], args[1:])
	default:
		fmt.Fprintf(c.stderr, "unknown command %q\n", args[0])
		c.printUsage()
		return exitUsage
	}
}

type commandOptions struct {
	expr       string
	configPath string
	maxSteps   int
	verbose    bool
	logFormat  string
	jsonOut    bool
}

// session is the resolved state a subcommand runs with.
type session struct {
	source string
	cfg    *driver.Config
	log    *slog.Logger
	json   bool
}

func (c *cli) command(name string, args []string) int {
	fs := flag.NewFlagSet("parsefix "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var opts commandOptions
	fs.StringVar(&opts.expr, "e", "", "source text to process instead of a file")
	fs.StringVar(&opts.configPath, "config", "", "path to "+driver.ConfigFileName+" (default: search upward from the working directory)")
	fs.IntVar(&opts.maxSteps, "max-steps", 0, "override execution.max_steps")
	fs.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	fs.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	if name != "tokens" {
		fs.BoolVar(&opts.jsonOut, "json", false, "print machine-readable JSON")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		return exitUsage
	}
	if fs.NArg() == 1 && opts.expr != "" {
		fmt.Fprintln(c.stderr, "pass either -e or a file, not both")
		return exitUsage
	}

	s, err := c.prepare(opts, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitFailure
	}
	switch name {
	case "tokens":
		return c.runTokens(s)
	case "parse":
		return c.runParse(s)
	case "eval":
		return c.runEval(s)
	case "check":
		return c.runCheck(s)
	default:
		return c.runProgram(s)
	}
}

func (c *cli) prepare(opts commandOptions, path string) (*session, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.maxSteps != 0 {
		cfg.Execution.MaxSteps = opts.maxSteps
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if opts.logFormat != "" {
		cfg.Log.Format = strings.ToLower(opts.logFormat)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LoggingConfig(c.stderr))
	if err != nil {
		return nil, err
	}
	source, err := c.readSource(opts.expr, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("config", "path", cfg.Path, "max_steps", cfg.Execution.MaxSteps, "crosscheck", cfg.CrossCheck)
	return &session{source: source, cfg: cfg, log: logger, json: opts.jsonOut}, nil
}

func loadConfig(path string) (*driver.Config, error) {
	if path == "" {
		found, err := driver.FindConfig(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return driver.DefaultConfig(), nil
		}
		path = found
	}
	return driver.LoadConfig(path)
}

func (c *cli) readSource(expr, path string) (string, error) {
	if expr != "" {
		return expr, nil
	}
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func (c *cli) runTokens(s *session) int {
	for _, tok := range lexer.Tokenize(s.source) {
		fmt.Fprintf(c.stdout, "%-14s %5d  %q\n", tok.Kind, tok.Offset, tok.Literal)
	}
	return exitOK
}

func (c *cli) runParse(s *session) int {
	result := parser.Parse(s.source)
	s.log.Debug("parsed", "mode", result.Mode, "success", result.Success)
	if s.json {
		if err := c.writeJSON(result); err != nil {
			fmt.Fprintln(c.stderr, err)
			return exitFailure
		}
	} else if result.Success {
		fmt.Fprint(c.stdout, ast.Render(result.Tree))
	} else {
		c.printParseErrors(result)
	}
	if !result.Success {
		return exitFailure
	}
	return exitOK
}

func (c *cli) runEval(s *session) int {
	result := parser.Parse(s.source)
	if !result.Success {
		c.printParseErrors(result)
		return exitFailure
	}
	if result.Mode != parser.ModeExpression {
		fmt.Fprintln(c.stderr, "eval expects an arithmetic expression; use 'parsefix run' for programs")
		return exitFailure
	}
	val, err := evaluator.EvaluateArithmetic(result.Tree)
	if err != nil {
		fmt.Fprintf(c.stderr, "evaluation error: %v\n", err)
		return exitFailure
	}
	if s.json {
		return c.exitJSON(map[string]any{"value": val})
	}
	fmt.Fprintln(c.stdout, runtime.FormatNumber(val))
	return exitOK
}

type runReport struct {
	Mode        parser.Mode `json:"mode"`
	Value       *float64    `json:"value,omitempty"`
	Output      []string    `json:"output,omitempty"`
	ReturnValue *float64    `json:"returnValue,omitempty"`
	Steps       int         `json:"steps,omitempty"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
}

func (c *cli) runProgram(s *session) int {
	iopts := s.cfg.InterpreterOptions()
	iopts.Logger = s.log
	out := driver.RunContext(c.ctx, s.source, driver.Options{
		Interpreter: iopts,
		CrossCheck:  s.cfg.CrossCheck,
		Logger:      s.log,
	})

	if s.json {
		report := runReport{Mode: out.Mode, Value: out.Value, Diagnostics: out.Diagnostics()}
		if exec := out.Execution; exec != nil {
			report.Output = exec.Output
			report.ReturnValue = exec.ReturnValue
			report.Steps = exec.Steps
		}
		if err := c.writeJSON(report); err != nil {
			fmt.Fprintln(c.stderr, err)
			return exitFailure
		}
	} else {
		if exec := out.Execution; exec != nil {
			for _, line := range exec.Output {
				fmt.Fprintln(c.stdout, line)
			}
			if exec.ReturnValue != nil {
				s.log.Info("program finished", "return", runtime.FormatNumber(*exec.ReturnValue), "steps", exec.Steps)
			}
		}
		if out.Value != nil {
			fmt.Fprintln(c.stdout, runtime.FormatNumber(*out.Value))
		}
		for _, line := range out.Diagnostics() {
			fmt.Fprintln(c.stderr, line)
		}
	}
	if out.Failed() {
		return exitFailure
	}
	return exitOK
}

type checkReport struct {
	Mode      parser.Mode         `json:"mode"`
	Success   bool                `json:"success"`
	Errors    []parser.ParseError `json:"errors,omitempty"`
	Reference *crosscheck.Report  `json:"reference,omitempty"`
}

func (c *cli) runCheck(s *session) int {
	result := parser.Parse(s.source)
	report := checkReport{Mode: result.Mode, Success: result.Success, Errors: result.Errors}
	if result.Mode == parser.ModeProgram {
		ref, err := crosscheck.Check(s.source)
		if err != nil {
			fmt.Fprintf(c.stderr, "crosscheck unavailable: %v\n", err)
		}
		report.Reference = ref
	}

	if s.json {
		if err := c.writeJSON(report); err != nil {
			fmt.Fprintln(c.stderr, err)
			return exitFailure
		}
	} else {
		if result.Success {
			fmt.Fprintf(c.stdout, "parser: ok (%s)\n", result.Mode)
		} else {
			for _, perr := range result.Errors {
				fmt.Fprintf(c.stdout, "parser: %s\n", formatParseError(perr))
			}
		}
		if ref := report.Reference; ref != nil {
			if ref.Accepted {
				fmt.Fprintln(c.stdout, "tree-sitter-c: accepted")
			} else {
				fmt.Fprintf(c.stdout, "tree-sitter-c: %s (offset %d)\n", ref.Message, ref.Offset)
			}
		}
	}
	if !result.Success {
		return exitFailure
	}
	return exitOK
}

func (c *cli) printParseErrors(result parser.ParseResult) {
	for _, perr := range result.Errors {
		fmt.Fprintln(c.stderr, formatParseError(perr))
	}
}

func formatParseError(perr parser.ParseError) string {
	line := fmt.Sprintf("%s: %s", perr.Code, perr.Error())
	if perr.Suggestion != "" {
		line += "\n  fix: " + perr.Suggestion
	}
	return line
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) exitJSON(v any) int {
	if err := c.writeJSON(v); err != nil {
		fmt.Fprintln(c.stderr, err)
		return exitFailure
	}
	return exitOK
}

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  parsefix tokens [flags] [file]")
	fmt.Fprintln(c.stderr, "  parsefix parse [--json] [flags] [file]")
	fmt.Fprintln(c.stderr, "  parsefix eval [flags] [file]")
	fmt.Fprintln(c.stderr, "  parsefix run [flags] [file]")
	fmt.Fprintln(c.stderr, "  parsefix check [flags] [file]")
	fmt.Fprintln(c.stderr, "  parsefix version")
	fmt.Fprintln(c.stderr, "")
	fmt.Fprintln(c.stderr, "Source is read from the file argument, -e <text>, or stdin.")
	fmt.Fprintln(c.stderr, "Flags: -config <path>, -max-steps <n>, -v, -log-format text|json")
}
