// Package crosscheck parses program text with the tree-sitter C grammar so
// our own diagnostics can be compared against a reference parser.
package crosscheck

import (
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// Report is the reference parser's verdict. Offsets are byte offsets into the
// trimmed source, matching the lexer.
type Report struct {
	Accepted bool   `json:"accepted"`
	Kind     string `json:"kind,omitempty"`
	Expected string `json:"expected,omitempty"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
}

// Checker wraps a tree-sitter parser configured for C.
type Checker struct {
	parser *sitter.Parser
}

// NewChecker constructs a checker with the C language loaded.
func NewChecker() (*Checker, error) {
	lang := sitter.NewLanguage(tree_sitter_c.Language())
	if lang == nil {
		return nil, fmt.Errorf("crosscheck: c language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("crosscheck: %w", err)
	}
	return &Checker{parser: p}, nil
}

// Close releases parser resources.
func (c *Checker) Close() {
	if c == nil || c.parser == nil {
		return
	}
	c.parser.Close()
}

// Check parses source and reports the first missing or erroneous node.
func (c *Checker) Check(source string) (*Report, error) {
	if c == nil || c.parser == nil {
		return nil, fmt.Errorf("crosscheck: nil checker")
	}
	src := []byte(strings.TrimSpace(source))
	tree := c.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("crosscheck: parse returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("crosscheck: empty tree")
	}
	if !root.HasError() {
		return &Report{Accepted: true, Message: "accepted by the C grammar"}, nil
	}

	report := &Report{Kind: "error"}
	node := findFirst(root, (*sitter.Node).IsMissing)
	if node != nil {
		report.Kind = "missing"
		report.Expected = formatExpectedKind(node.Kind())
	} else if node = findFirst(root, (*sitter.Node).IsError); node == nil {
		node = root
	}
	pos := node.StartPosition()
	report.Offset = int(node.StartByte())
	report.Line = int(pos.Row) + 1
	report.Column = int(pos.Column) + 1
	if report.Expected != "" {
		report.Message = fmt.Sprintf("syntax error: expected %s at line %d, column %d", report.Expected, report.Line, report.Column)
	} else {
		report.Message = fmt.Sprintf("syntax error at line %d, column %d", report.Line, report.Column)
	}
	return report, nil
}

// Check runs a one-off checker over source.
func Check(source string) (*Report, error) {
	c, err := NewChecker()
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Check(source)
}

func findFirst(root *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if !match(node) {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func walkNodes(root *sitter.Node, visit func(node *sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		walkNodes(child, visit)
	}
}

func formatExpectedKind(kind string) string {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "token"
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return strings.ReplaceAll(trimmed, "_", " ")
		}
	}
	return fmt.Sprintf("'%s'", trimmed)
}
