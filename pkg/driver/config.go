package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vishnuhala/parse-and-fix/pkg/interpreter"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
	"github.com/vishnuhala/parse-and-fix/pkg/logging"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "parsefix.yml"

// Config represents the parsed contents of parsefix.yml.
type Config struct {
	Path       string
	Execution  ExecutionConfig
	CrossCheck bool
	Log        LogConfig
}

// ExecutionConfig bounds interpreter runs.
type ExecutionConfig struct {
	MaxSteps       int
	MaxCallDepth   int
	MaxArrayLength int
	OutputFunction string
}

// LogConfig selects the logger level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Execution: ExecutionConfig{
			MaxSteps:       interpreter.DefaultMaxSteps,
			MaxCallDepth:   interpreter.DefaultMaxCallDepth,
			MaxArrayLength: interpreter.DefaultMaxArrayLength,
			OutputFunction: interpreter.DefaultOutputFunction,
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses a config file from disk, returning a validated config.
// Keys absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := decodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return raw.toConfig(), nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if c.Execution.MaxSteps <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("execution.max_steps must be positive, got %d", c.Execution.MaxSteps))
	}
	if c.Execution.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("execution.max_call_depth must be positive, got %d", c.Execution.MaxCallDepth))
	}
	if c.Execution.MaxArrayLength <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("execution.max_array_length must be positive, got %d", c.Execution.MaxArrayLength))
	}
	if name := c.Execution.OutputFunction; !isIdentifier(name) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("execution.output_function %q is not an identifier", name))
	} else if _, reserved := lexer.Keywords[name]; reserved {
		errs.Issues = append(errs.Issues, fmt.Sprintf("execution.output_function %q is a reserved word", name))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// InterpreterOptions maps the execution settings onto interpreter options.
func (c *Config) InterpreterOptions() interpreter.Options {
	return interpreter.Options{
		MaxSteps:       c.Execution.MaxSteps,
		MaxCallDepth:   c.Execution.MaxCallDepth,
		MaxArrayLength: c.Execution.MaxArrayLength,
		OutputFunction: c.Execution.OutputFunction,
	}
}

// LoggingConfig maps the log settings onto a logging config.
func (c *Config) LoggingConfig(output io.Writer) logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format, Output: output}
}

// FindConfig walks up from start looking for parsefix.yml. It returns an
// empty path and no error when none exists.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

type configFile struct {
	Execution  *executionYAML `yaml:"execution"`
	CrossCheck *bool          `yaml:"crosscheck"`
	Log        *logYAML       `yaml:"log"`
}

type executionYAML struct {
	MaxSteps       *int    `yaml:"max_steps"`
	MaxCallDepth   *int    `yaml:"max_call_depth"`
	MaxArrayLength *int    `yaml:"max_array_length"`
	OutputFunction *string `yaml:"output_function"`
}

type logYAML struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

func (cf configFile) toConfig() *Config {
	cfg := DefaultConfig()
	if cf.CrossCheck != nil {
		cfg.CrossCheck = *cf.CrossCheck
	}
	if ex := cf.Execution; ex != nil {
		if ex.MaxSteps != nil {
			cfg.Execution.MaxSteps = *ex.MaxSteps
		}
		if ex.MaxCallDepth != nil {
			cfg.Execution.MaxCallDepth = *ex.MaxCallDepth
		}
		if ex.MaxArrayLength != nil {
			cfg.Execution.MaxArrayLength = *ex.MaxArrayLength
		}
		if ex.OutputFunction != nil {
			cfg.Execution.OutputFunction = strings.TrimSpace(*ex.OutputFunction)
		}
	}
	if l := cf.Log; l != nil {
		if l.Level != nil {
			cfg.Log.Level = strings.ToLower(strings.TrimSpace(*l.Level))
		}
		if l.Format != nil {
			cfg.Log.Format = strings.ToLower(strings.TrimSpace(*l.Format))
		}
	}
	return cfg
}
