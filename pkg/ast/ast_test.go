package ast

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAtRecordsOffset(t *testing.T) {
	id := At(ID("x"), 7)
	if id.Offset() != 7 {
		t.Fatalf("offset = %d, want 7", id.Offset())
	}
	if id.NodeType() != NodeIdentifier {
		t.Fatalf("node type = %s", id.NodeType())
	}
}

func TestAssignmentOperatorBinaryOperator(t *testing.T) {
	cases := map[AssignmentOperator]string{
		AssignmentAdd: "+",
		AssignmentSub: "-",
		AssignmentMul: "*",
		AssignmentDiv: "/",
		AssignmentMod: "%",
	}
	for op, want := range cases {
		got, ok := op.BinaryOperator()
		if !ok || got != want {
			t.Fatalf("%s.BinaryOperator() = %q, %v", op, got, ok)
		}
	}
	if _, ok := AssignmentAssign.BinaryOperator(); ok {
		t.Fatalf("plain assignment has no binary operator")
	}
}

func TestRenderNestsChildren(t *testing.T) {
	prog := Prog(
		Fn("int", "main", nil,
			Decl("int", "x", Bin("+", Num(2), Bin("*", Num(3), Num(4)))),
			If(Bin(">", ID("x"), Num(10)), Blk(Ret(ID("x"))), nil),
			Ret(Num(0)),
		),
	)
	out := Render(prog)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Program" {
		t.Fatalf("first line = %q", lines[0])
	}
	if lines[1] != "  FunctionDefinition int main()" {
		t.Fatalf("second line = %q", lines[1])
	}
	for _, want := range []string{
		"    body: Block",
		"      Declaration int x",
		"        init: BinaryExpression +",
		"          right: BinaryExpression *",
		"            left: NumberLiteral 3",
		"        condition: BinaryExpression >",
		"        then: Block",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOptionalClauses(t *testing.T) {
	loop := For(nil, nil, nil, Blk(Brk()))
	out := Render(loop)
	if strings.Count(out, "<none>") != 3 {
		t.Fatalf("expected three empty clauses:\n%s", out)
	}

	sw := Switch(ID("n"), []*SwitchCase{Case(Num(1), Brk())}, []Statement{Cont()})
	out = Render(sw)
	if !strings.Contains(out, "  default:\n    ContinueStatement\n") {
		t.Fatalf("default body not rendered:\n%s", out)
	}
}

func TestNodesMarshalWithTypeTag(t *testing.T) {
	data, err := json.Marshal(Assign(Index("arr", Num(1)), Chr('a')))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"type":"Assignment"`, `"type":"ArrayAccess"`, `"type":"CharLiteral"`, `"value":97`} {
		if !strings.Contains(text, want) {
			t.Fatalf("json %s missing %s", text, want)
		}
	}
}
