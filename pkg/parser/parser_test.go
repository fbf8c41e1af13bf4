package parser

import (
	"reflect"
	"testing"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
)

func mustParse(t *testing.T, source string) ParseResult {
	t.Helper()
	result := Parse(source)
	if !result.Success {
		t.Fatalf("Parse(%q) failed: %+v", source, result.Errors)
	}
	if result.Tree == nil || len(result.Errors) != 0 {
		t.Fatalf("Parse(%q) success without tree or with errors: %+v", source, result)
	}
	return result
}

func mustFail(t *testing.T, source string, code ErrorCode, offset int) ParseError {
	t.Helper()
	result := Parse(source)
	if result.Success {
		t.Fatalf("Parse(%q) unexpectedly succeeded: %s", source, ast.Render(result.Tree))
	}
	if result.Tree != nil {
		t.Fatalf("failed parse must not carry a tree")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Parse(%q) errors = %+v, want exactly one", source, result.Errors)
	}
	got := result.Errors[0]
	if got.Code != code || got.Offset != offset {
		t.Fatalf("Parse(%q) error = %+v, want code %s at offset %d", source, got, code, offset)
	}
	if got.Suggestion == "" {
		t.Fatalf("Parse(%q) error has no suggestion: %+v", source, got)
	}
	return got
}

func programBody(t *testing.T, result ParseResult) []ast.Statement {
	t.Helper()
	prog, ok := result.Tree.(*ast.Program)
	if !ok {
		t.Fatalf("expected *ast.Program, got %T", result.Tree)
	}
	return prog.Body
}

func TestParseEmptyInput(t *testing.T) {
	for _, source := range []string{"", "   \n\t"} {
		err := mustFail(t, source, CodeEmptyExpression, 0)
		if err.Message != "empty expression" {
			t.Fatalf("message = %q", err.Message)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	result := mustParse(t, "2 + 3 * 4")
	if result.Mode != ModeExpression {
		t.Fatalf("mode = %s, want expression", result.Mode)
	}
	want := ast.Bin("+", ast.Num(2), ast.Bin("*", ast.Num(3), ast.Num(4)))
	if !sameShape(result.Tree, want) {
		t.Fatalf("tree:\n%s", ast.Render(result.Tree))
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	result := mustParse(t, "2 ^ 3 ^ 2")
	want := ast.Bin("^", ast.Num(2), ast.Bin("^", ast.Num(3), ast.Num(2)))
	if !sameShape(result.Tree, want) {
		t.Fatalf("tree:\n%s", ast.Render(result.Tree))
	}
}

func TestParseLeftAssociativeLevels(t *testing.T) {
	result := mustParse(t, "10 - 4 - 3 < 5 == 1 && x || !y")
	want := ast.Bin("||",
		ast.Bin("&&",
			ast.Bin("==",
				ast.Bin("<", ast.Bin("-", ast.Bin("-", ast.Num(10), ast.Num(4)), ast.Num(3)), ast.Num(5)),
				ast.Num(1)),
			ast.ID("x")),
		ast.Un(ast.UnaryNot, ast.ID("y")))
	if !sameShape(result.Tree, want) {
		t.Fatalf("tree:\n%s", ast.Render(result.Tree))
	}
}

func TestParseUnaryForms(t *testing.T) {
	result := mustParse(t, "-a + +b * -(c)")
	want := ast.Bin("+",
		ast.Neg(ast.ID("a")),
		ast.Bin("*", ast.Un(ast.UnaryPlus, ast.ID("b")), ast.Neg(ast.ID("c"))))
	if !sameShape(result.Tree, want) {
		t.Fatalf("tree:\n%s", ast.Render(result.Tree))
	}
}

func TestParseUnclosedParenthesisPointsAtOpener(t *testing.T) {
	err := mustFail(t, "(2 + 3", CodeUnmatchedDelimiter, 0)
	if err.Message != "missing closing parenthesis" {
		t.Fatalf("message = %q", err.Message)
	}
	mustFail(t, "1 + (2 * (3 - 4)", CodeUnmatchedDelimiter, 4)
}

func TestParseInvalidCharacterStopsImmediately(t *testing.T) {
	err := mustFail(t, "int x = 5 @ 3;", CodeInvalidCharacter, 10)
	if err.Message != `invalid character "@"` {
		t.Fatalf("message = %q", err.Message)
	}
}

func TestParseTrailingTokensKeepPartialTree(t *testing.T) {
	result := Parse("2 + 3 4")
	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.Errors[0].Code != CodeUnexpectedToken || result.Errors[0].Offset != 6 {
		t.Fatalf("error = %+v", result.Errors[0])
	}
	if !sameShape(result.Partial, ast.Bin("+", ast.Num(2), ast.Num(3))) {
		t.Fatalf("partial tree lost: %v", result.Partial)
	}

	mustFail(t, "2 + 3)", CodeUnmatchedDelimiter, 5)
}

func TestParseDeclaration(t *testing.T) {
	result := mustParse(t, "int x = 5;")
	if result.Mode != ModeProgram {
		t.Fatalf("mode = %s, want program", result.Mode)
	}
	body := programBody(t, result)
	if len(body) != 1 {
		t.Fatalf("statements = %d, want 1", len(body))
	}
	decl, ok := body[0].(*ast.Declaration)
	if !ok {
		t.Fatalf("expected declaration, got %T", body[0])
	}
	if decl.Name.Name != "x" || decl.TypeName != "int" {
		t.Fatalf("declaration = %+v", decl)
	}
	if lit, ok := decl.Initializer.(*ast.NumberLiteral); !ok || lit.Value != 5 {
		t.Fatalf("initializer = %#v", decl.Initializer)
	}
}

func TestParseDeclarators(t *testing.T) {
	body := programBody(t, mustParse(t, "unsigned long n; char *s = \"hi\\n\"; int a[3] = {1, 2, 3}; int b[];"))
	if len(body) != 4 {
		t.Fatalf("statements = %d", len(body))
	}
	n := body[0].(*ast.Declaration)
	if n.TypeName != "unsigned long" || n.Initializer != nil {
		t.Fatalf("stacked type = %+v", n)
	}
	s := body[1].(*ast.Declaration)
	if s.PointerDepth != 1 || s.Initializer.(*ast.StringLiteral).Value != "hi\n" {
		t.Fatalf("pointer decl = %+v", s)
	}
	a := body[2].(*ast.Declaration)
	list, ok := a.Initializer.(*ast.InitializerList)
	if !a.IsArray || a.ArraySize.(*ast.NumberLiteral).Value != 3 || !ok || len(list.Elements) != 3 {
		t.Fatalf("array decl = %+v", a)
	}
	b := body[3].(*ast.Declaration)
	if !b.IsArray || b.ArraySize != nil {
		t.Fatalf("unsized array = %+v", b)
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	source := `#include <stdio.h>
int add(int a, int *b, int c[]) {
	return a + *b + c[0];
}
int main(void) {
	int x = 5;
	int y = 3;
	printf(x + y);
	return x * y;
}`
	body := programBody(t, mustParse(t, source))
	if len(body) != 3 {
		t.Fatalf("statements = %d", len(body))
	}
	if dir := body[0].(*ast.PreprocessorDirective); dir.Text != "#include <stdio.h>" {
		t.Fatalf("directive = %q", dir.Text)
	}
	add := body[1].(*ast.FunctionDefinition)
	if add.Name.Name != "add" || len(add.Params) != 3 {
		t.Fatalf("add = %+v", add)
	}
	if add.Params[1].PointerDepth != 1 || !add.Params[2].IsArray {
		t.Fatalf("params = %+v %+v", add.Params[1], add.Params[2])
	}
	main := body[2].(*ast.FunctionDefinition)
	if len(main.Params) != 0 || len(main.Body.Body) != 4 {
		t.Fatalf("main = %s", ast.Render(main))
	}
	call, ok := main.Body.Body[2].(*ast.FunctionCall)
	if !ok || call.Callee.Name != "printf" || len(call.Arguments) != 1 {
		t.Fatalf("call = %#v", main.Body.Body[2])
	}
}

func TestParseStatementForms(t *testing.T) {
	source := `
x = 1;
arr[i] += 2;
*p = 3;
i++;
--j;
if (x > 0) y = 1; else { y = 2; }
while (x < 10) x++;
do { x--; } while (x);
for (int k = 0; k < 3; k++) ;
for (;;) break;
switch (x) { case 1: y = 1; case 2: y = 2; break; default: y = 0; }
return;
`
	body := programBody(t, mustParse(t, source))
	wantTypes := []ast.NodeType{
		ast.NodeAssignment, ast.NodeAssignment, ast.NodeAssignment,
		ast.NodeUpdateExpression, ast.NodeUpdateExpression,
		ast.NodeIfStatement, ast.NodeWhileLoop, ast.NodeDoWhileLoop,
		ast.NodeForLoop, ast.NodeForLoop, ast.NodeSwitchStatement, ast.NodeReturnStatement,
	}
	if len(body) != len(wantTypes) {
		t.Fatalf("statements = %d, want %d", len(body), len(wantTypes))
	}
	for i, want := range wantTypes {
		if got := body[i].NodeType(); got != want {
			t.Fatalf("statement %d = %s, want %s", i, got, want)
		}
	}

	compound := body[1].(*ast.Assignment)
	if compound.Operator != ast.AssignmentAdd {
		t.Fatalf("compound operator = %s", compound.Operator)
	}
	if _, ok := body[2].(*ast.Assignment).Target.(*ast.UnaryExpression); !ok {
		t.Fatalf("dereference target lost")
	}
	if pre := body[4].(*ast.UpdateExpression); !pre.Prefix || pre.Operator != "--" {
		t.Fatalf("prefix update = %+v", pre)
	}

	loop := body[8].(*ast.ForLoop)
	if _, ok := loop.Init.(*ast.Declaration); !ok {
		t.Fatalf("for init = %T", loop.Init)
	}
	if block, ok := loop.Body.(*ast.Block); !ok || len(block.Body) != 0 {
		t.Fatalf("empty for body = %#v", loop.Body)
	}
	forever := body[9].(*ast.ForLoop)
	if forever.Init != nil || forever.Condition != nil || forever.Increment != nil {
		t.Fatalf("omitted clauses = %+v", forever)
	}

	sw := body[10].(*ast.SwitchStatement)
	if len(sw.Cases) != 2 || len(sw.Cases[1].Body) != 2 || len(sw.Default) != 1 {
		t.Fatalf("switch:\n%s", ast.Render(sw))
	}
}

func TestParseCharLiteral(t *testing.T) {
	body := programBody(t, mustParse(t, `char c = '\n'; char d = 'a';`))
	if v := body[0].(*ast.Declaration).Initializer.(*ast.CharLiteral).Value; v != '\n' {
		t.Fatalf("escape char = %q", v)
	}
	if v := body[1].(*ast.Declaration).Initializer.(*ast.CharLiteral).Value; v != 'a' {
		t.Fatalf("char = %q", v)
	}
}

func TestParseTrailingDecimalPoint(t *testing.T) {
	body := programBody(t, mustParse(t, "x = 1.;"))
	assign := body[0].(*ast.Assignment)
	if v := assign.Value.(*ast.NumberLiteral).Value; v != 1 {
		t.Fatalf("value = %v, want 1", v)
	}
}

func TestParseStructuralErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		code   ErrorCode
		offset int
	}{
		{"missing semicolon", "int x = 5", CodeMissingToken, 9},
		{"missing semicolon before next statement", "x = 1\ny = 2;", CodeMissingToken, 6},
		{"missing identifier after type", "int = 5;", CodeMissingToken, 4},
		{"missing function body", "int f(int a);", CodeMissingToken, 12},
		{"unclosed block", "int main() { return 0;", CodeUnmatchedDelimiter, 11},
		{"stray closing brace", "x = 1; }", CodeUnmatchedDelimiter, 7},
		{"unclosed subscript", "a[1 = 2;", CodeUnmatchedDelimiter, 1},
		{"unclosed call", "f(1, 2;", CodeUnmatchedDelimiter, 1},
		{"empty switch target", "switch () { }", CodeMissingToken, 8},
		{"missing while after do", "do { x++; } x;", CodeMissingToken, 12},
		{"unterminated string", `char *s = "abc;`, CodeMissingToken, 10},
		{"dangling operator", "x = 2 +;", CodeUnexpectedToken, 7},
		{"end of input in expression", "2 *", CodeMissingToken, 3},
		{"else without if", "else x = 1;", CodeUnexpectedToken, 0},
		{"invalid assignment target", "f() = 1;", CodeUnexpectedToken, 4},
		{"pipe is not an operator", "a | b", CodeUnexpectedToken, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mustFail(t, tc.source, tc.code, tc.offset)
		})
	}
}

func TestParseErrorImplementsError(t *testing.T) {
	result := Parse("(1")
	err := result.Err()
	if err == nil || err.Error() != "missing closing parenthesis at offset 0" {
		t.Fatalf("Err() = %v", err)
	}
	if mustParse(t, "1").Err() != nil {
		t.Fatalf("successful parse must have nil Err")
	}
}

func TestParseIsIdempotent(t *testing.T) {
	source := "int main() { int s = 0; for (int i = 0; i < 4; i++) { s += i; } return s; }"
	first := Parse(source)
	second := Parse(source)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("independent parses differ:\n%s\n%s", ast.Render(first.Tree), ast.Render(second.Tree))
	}
}

func TestParseRecordsOffsets(t *testing.T) {
	body := programBody(t, mustParse(t, "int x;\n  while (x) x--;"))
	if body[1].Offset() != 9 {
		t.Fatalf("while offset = %d, want 9", body[1].Offset())
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"2 + 3 * 4", "(2 + 3", "int main() { return 0; }", "switch (x) { case 1: break; }", "a[", "'", "for (;;"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, source string) {
		result := Parse(source)
		if result.Success == (len(result.Errors) > 0) {
			t.Fatalf("success flag inconsistent with errors: %+v", result)
		}
		if result.Success != (result.Tree != nil) {
			t.Fatalf("tree presence inconsistent with success: %+v", result)
		}
	})
}

// sameShape compares trees ignoring source offsets and raw number text.
func sameShape(got ast.Node, want ast.Node) bool {
	return ast.Render(got) == ast.Render(want)
}
