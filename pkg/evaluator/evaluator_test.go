package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/parser"
)

func evalSource(t *testing.T, source string) (float64, error) {
	t.Helper()
	result := parser.Parse(source)
	if !result.Success {
		t.Fatalf("Parse(%q) failed: %+v", source, result.Errors)
	}
	return EvaluateArithmetic(result.Tree)
}

func TestEvaluateArithmetic(t *testing.T) {
	cases := []struct {
		source string
		want   float64
	}{
		{"2 + 3 * 4", 14},
		{"2 ^ 3 ^ 2", 512},
		{"(2 + 3) * 4", 20},
		{"7 / 2", 3.5},
		{"7 % 3", 1},
		{"7.5 % 2", 1.5},
		{"-3 + +5", 2},
		{"2 ^ 0.5 ^ 2", math.Pow(2, 0.25)},
		{"10 - 4 - 3", 3},
	}
	for _, tc := range cases {
		got, err := evalSource(t, tc.source)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.source, err)
		}
		if got != tc.want {
			t.Fatalf("%s = %v, want %v", tc.source, got, tc.want)
		}
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	for _, source := range []string{"5 / 0", "5 % 0", "1 + 2 / (3 - 3)"} {
		_, err := evalSource(t, source)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Fatalf("%s: expected ErrDivisionByZero, got %v", source, err)
		}
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) {
			t.Fatalf("%s: expected *EvaluationError, got %T", source, err)
		}
	}
}

func TestEvaluateRejectsIdentifiers(t *testing.T) {
	_, err := evalSource(t, "x + 1")
	if !errors.Is(err, ErrIdentifierWithoutContext) {
		t.Fatalf("expected ErrIdentifierWithoutContext, got %v", err)
	}
}

func TestEvaluateRejectsProgramNodes(t *testing.T) {
	_, err := evalSource(t, "int x = 5;")
	if !errors.Is(err, ErrUnsupportedNode) {
		t.Fatalf("expected ErrUnsupportedNode, got %v", err)
	}
	if _, err := EvaluateArithmetic(nil); !errors.Is(err, ErrUnsupportedNode) {
		t.Fatalf("nil tree: %v", err)
	}
	if _, err := EvaluateArithmetic(ast.Str("hi")); !errors.Is(err, ErrUnsupportedNode) {
		t.Fatalf("string literal: %v", err)
	}
}

func TestEvaluateUnknownOperators(t *testing.T) {
	for _, source := range []string{"1 < 2", "!1", "1 && 2"} {
		_, err := evalSource(t, source)
		if !errors.Is(err, ErrUnknownOperator) {
			t.Fatalf("%s: expected ErrUnknownOperator, got %v", source, err)
		}
	}
}

func TestEvaluateCharLiteral(t *testing.T) {
	got, err := EvaluateArithmetic(ast.Bin("+", ast.Chr('a'), ast.Num(1)))
	if err != nil || got != 98 {
		t.Fatalf("'a' + 1 = %v, %v", got, err)
	}
}
