package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Render returns an indented, human-readable dump of the tree rooted at node.
// The layout is for display only.
func Render(node Node) string {
	var b strings.Builder
	renderNode(&b, node, 0, "")
	return b.String()
}

func renderNode(b *strings.Builder, node Node, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}
	if isNilNode(node) {
		b.WriteString("<none>\n")
		return
	}
	b.WriteString(string(node.NodeType()))
	if detail := nodeDetail(node); detail != "" {
		b.WriteString(" ")
		b.WriteString(detail)
	}
	b.WriteString("\n")

	child := func(n Node, label string) { renderNode(b, n, depth+1, label) }
	switch n := node.(type) {
	case *InitializerList:
		for _, el := range n.Elements {
			child(el, "")
		}
	case *BinaryExpression:
		child(n.Left, "left")
		child(n.Right, "right")
	case *UnaryExpression:
		child(n.Operand, "operand")
	case *UpdateExpression:
		child(n.Target, "target")
	case *Assignment:
		child(n.Target, "target")
		child(n.Value, "value")
	case *ArrayAccess:
		child(n.Index, "index")
	case *FunctionCall:
		for i, arg := range n.Arguments {
			child(arg, "arg"+strconv.Itoa(i))
		}
	case *Declaration:
		if n.ArraySize != nil {
			child(n.ArraySize, "size")
		}
		if n.Initializer != nil {
			child(n.Initializer, "init")
		}
	case *FunctionDefinition:
		for _, p := range n.Params {
			child(p, "param")
		}
		child(n.Body, "body")
	case *Block:
		for _, stmt := range n.Body {
			child(stmt, "")
		}
	case *Program:
		for _, stmt := range n.Body {
			child(stmt, "")
		}
	case *IfStatement:
		child(n.Condition, "condition")
		child(n.Consequent, "then")
		if n.Alternative != nil {
			child(n.Alternative, "else")
		}
	case *WhileLoop:
		child(n.Condition, "condition")
		child(n.Body, "body")
	case *DoWhileLoop:
		child(n.Body, "body")
		child(n.Condition, "condition")
	case *ForLoop:
		child(n.Init, "init")
		child(n.Condition, "condition")
		child(n.Increment, "increment")
		child(n.Body, "body")
	case *SwitchStatement:
		child(n.Test, "test")
		for _, c := range n.Cases {
			child(c, "")
		}
		if n.Default != nil {
			b.WriteString(indent + "  default:\n")
			for _, stmt := range n.Default {
				renderNode(b, stmt, depth+2, "")
			}
		}
	case *SwitchCase:
		child(n.Value, "value")
		for _, stmt := range n.Body {
			child(stmt, "")
		}
	case *ReturnStatement:
		if n.Argument != nil {
			child(n.Argument, "value")
		}
	}
}

func nodeDetail(node Node) string {
	switch n := node.(type) {
	case *NumberLiteral:
		return n.Raw
	case *StringLiteral:
		return strconv.Quote(n.Value)
	case *CharLiteral:
		return strconv.QuoteRune(n.Value)
	case *Identifier:
		return n.Name
	case *BinaryExpression:
		return n.Operator
	case *UnaryExpression:
		return string(n.Operator)
	case *UpdateExpression:
		if n.Prefix {
			return "prefix " + n.Operator
		}
		return "postfix " + n.Operator
	case *Assignment:
		return string(n.Operator)
	case *ArrayAccess:
		return n.Array.Name
	case *FunctionCall:
		return n.Callee.Name
	case *Declaration:
		return declarator(n.TypeName, n.PointerDepth, n.Name, n.IsArray)
	case *FunctionParameter:
		return declarator(n.TypeName, n.PointerDepth, n.Name, n.IsArray)
	case *FunctionDefinition:
		return fmt.Sprintf("%s %s()", n.ReturnType, n.Name.Name)
	case *PreprocessorDirective:
		return n.Text
	}
	return ""
}

func declarator(typeName string, pointers int, name *Identifier, isArray bool) string {
	out := typeName + " " + strings.Repeat("*", pointers)
	if name != nil {
		out += name.Name
	}
	if isArray {
		out += "[]"
	}
	return out
}

// isNilNode catches typed nil pointers stored in interfaces.
func isNilNode(node Node) bool {
	if node == nil {
		return true
	}
	switch n := node.(type) {
	case *Block:
		return n == nil
	case *Identifier:
		return n == nil
	}
	return false
}
