package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vishnuhala/parse-and-fix/pkg/interpreter"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `
execution:
  max_steps: 5000
  max_array_length: 64
  output_function: print
crosscheck: true
log:
  level: DEBUG
  format: json
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Execution.MaxSteps != 5000 {
		t.Fatalf("max steps = %d, want 5000", cfg.Execution.MaxSteps)
	}
	if cfg.Execution.MaxCallDepth != interpreter.DefaultMaxCallDepth {
		t.Fatalf("max call depth = %d, want default", cfg.Execution.MaxCallDepth)
	}
	if cfg.Execution.OutputFunction != "print" || !cfg.CrossCheck {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if !filepath.IsAbs(cfg.Path) {
		t.Fatalf("expected absolute path, got %s", cfg.Path)
	}
	opts := cfg.InterpreterOptions()
	if opts.MaxSteps != 5000 || opts.MaxArrayLength != 64 || opts.OutputFunction != "print" {
		t.Fatalf("unexpected interpreter options %+v", opts)
	}
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.Execution != want.Execution || cfg.Log != want.Log || cfg.CrossCheck {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "execution:\n  max_stepz: 10\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "max_stepz") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigAggregatesIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, `
execution:
  max_steps: 0
  max_call_depth: -1
  max_array_length: 0
  output_function: "while"
log:
  level: loud
  format: xml
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 6 {
		t.Fatalf("expected 6 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
	if !strings.HasPrefix(verr.Error(), "config validation failed:\n- execution.max_steps") {
		t.Fatalf("unexpected message %q", verr.Error())
	}
}

func TestLoadConfigBadOutputFunction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Execution.OutputFunction = "2print"
	var verr *ValidationError
	if err := cfg.Validate(); !errors.As(err, &verr) || len(verr.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, ConfigFileName)
	writeFile(t, want, "crosscheck: true\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if got != want {
		t.Fatalf("FindConfig = %s, want %s", got, want)
	}
}
