package driver

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type fixtureManifest struct {
	Description string   `yaml:"description"`
	Source      string   `yaml:"source"`
	SkipTargets []string `yaml:"skip_targets"`
	Options     struct {
		MaxSteps       int    `yaml:"max_steps"`
		MaxCallDepth   int    `yaml:"max_call_depth"`
		MaxArrayLength int    `yaml:"max_array_length"`
		OutputFunction string `yaml:"output_function"`
	} `yaml:"options"`
	Expect struct {
		Mode        string            `yaml:"mode"`
		Value       *float64          `yaml:"value"`
		Return      *float64          `yaml:"return"`
		Output      []string          `yaml:"output"`
		Variables   map[string]string `yaml:"variables"`
		Errors      []string          `yaml:"errors"`
		ParseErrors []struct {
			Code   string `yaml:"code"`
			Offset int    `yaml:"offset"`
		} `yaml:"parse_errors"`
	} `yaml:"expect"`
}

func readManifest(t testingT, path string) fixtureManifest {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var manifest fixtureManifest
	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("parse fixture %s: %v", path, err)
	}
	if strings.TrimSpace(manifest.Source) == "" && len(manifest.Expect.ParseErrors) == 0 {
		t.Fatalf("fixture %s has no source", path)
	}
	return manifest
}

func fixtureFiles(t testingT, root string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(root, "*.yml"))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	sort.Strings(matches)
	return matches
}

func shouldSkipTarget(skip []string, target string) bool {
	target = strings.ToLower(target)
	for _, entry := range skip {
		if strings.ToLower(strings.TrimSpace(entry)) == target {
			return true
		}
	}
	return false
}

// containsAny reports whether msg contains one of fragments.
func containsAny(fragments []string, msg string) bool {
	for _, fragment := range fragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
