package crosscheck

import "testing"

func newChecker(t *testing.T) *Checker {
	t.Helper()
	c, err := NewChecker()
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestAcceptsValidProgram(t *testing.T) {
	c := newChecker(t)
	src := `
#include <stdio.h>

int square(int n) {
    return n * n;
}

int main() {
    int total = 0;
    for (int i = 0; i < 4; i++) {
        total += square(i);
    }
    printf("%d\n", total);
    return 0;
}
`
	report, err := c.Check(src)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.Accepted {
		t.Fatalf("expected program to be accepted, got %+v", report)
	}
}

func TestRejectsBrokenProgram(t *testing.T) {
	c := newChecker(t)
	cases := []string{
		"int main() { int x = 5 return x; }",
		"int main() { if (1 { return 0; } }",
		"int main() { return (1 + ; }",
	}
	for _, src := range cases {
		report, err := c.Check(src)
		if err != nil {
			t.Fatalf("Check(%q): %v", src, err)
		}
		if report.Accepted {
			t.Fatalf("expected %q to be rejected", src)
		}
		if report.Message == "" {
			t.Fatalf("expected a message for %q", src)
		}
		if report.Line != 1 || report.Column < 1 {
			t.Fatalf("unexpected location for %q: %+v", src, report)
		}
		if report.Offset < 0 || report.Offset > len(src) {
			t.Fatalf("offset %d out of range for %q", report.Offset, src)
		}
	}
}

func TestOffsetsIgnoreSurroundingWhitespace(t *testing.T) {
	c := newChecker(t)
	src := "int main() { int x = 5 return x; }"
	bare, err := c.Check(src)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	padded, err := c.Check("\n\n   " + src + "\n")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if bare.Offset != padded.Offset || bare.Kind != padded.Kind {
		t.Fatalf("padding changed report: %+v vs %+v", bare, padded)
	}
}

func TestPackageCheck(t *testing.T) {
	report, err := Check("int main() { return 0; }")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !report.Accepted {
		t.Fatalf("expected accepted, got %+v", report)
	}
}

func TestNilChecker(t *testing.T) {
	var c *Checker
	if _, err := c.Check("int x;"); err == nil {
		t.Fatalf("expected error from nil checker")
	}
	c.Close()
}

func TestFormatExpectedKind(t *testing.T) {
	cases := map[string]string{
		";":              "';'",
		"identifier":     "identifier",
		"primitive_type": "primitive type",
		"":               "token",
		"  }  ":          "'}'",
	}
	for in, want := range cases {
		if got := formatExpectedKind(in); got != want {
			t.Fatalf("formatExpectedKind(%q) = %q, want %q", in, got, want)
		}
	}
}
