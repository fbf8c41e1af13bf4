package parser

import (
	"strings"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
)

// parseDeclaration parses a variable declaration or, when standalone is set,
// a function definition. Standalone declarations consume their ';'; the
// for-loop initializer form leaves it to the caller.
func (p *parser) parseDeclaration(standalone bool) (ast.Statement, *ParseError) {
	start := p.peek()
	typeName := p.parseTypeName()
	pointers := p.parseStars()

	nameTok := p.peek()
	if nameTok.Kind != lexer.Identifier {
		return nil, newError(CodeMissingToken, nameTok.Offset,
			"Add a name after the type, e.g. '"+typeName+" x;'",
			"expected identifier after type '%s'", typeName)
	}
	p.advance()
	name := ast.At(ast.NewIdentifier(nameTok.Literal), nameTok.Offset)

	if open := p.peek(); open.Kind == lexer.LParen {
		if !standalone {
			return nil, unexpectedToken(open, "';'")
		}
		return p.parseFunctionDefinition(start, typeName+strings.Repeat("*", pointers), name)
	}

	var (
		isArray bool
		size    ast.Expression
		init    ast.Expression
	)
	if open, ok := p.match(lexer.LBracket); ok {
		isArray = true
		if !p.check(lexer.RBracket) {
			var err *ParseError
			if size, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		if err := p.expectClose(open, lexer.RBracket, "]"); err != nil {
			return nil, err
		}
	}
	if _, ok := p.match(lexer.Assign); ok {
		var err *ParseError
		if open := p.peek(); open.Kind == lexer.LBrace {
			if !isArray {
				return nil, newError(CodeUnexpectedToken, open.Offset, "Declare '"+name.Name+"' as an array or assign a single value", "initializer list for non-array '%s'", name.Name)
			}
			init, err = p.parseInitializerList()
		} else {
			init, err = p.parseExpression()
		}
		if err != nil {
			return nil, err
		}
	}

	decl := ast.At(ast.NewDeclaration(typeName, name, pointers, isArray, size, init), start.Offset)
	if standalone {
		if err := p.expectSemicolon("the declaration of '" + name.Name + "'"); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

// parseTypeName joins stacked type keywords such as `unsigned long`.
func (p *parser) parseTypeName() string {
	words := make([]string, 0, 2)
	for p.peek().IsTypeKeyword() {
		words = append(words, p.advance().Literal)
	}
	return strings.Join(words, " ")
}

func (p *parser) parseStars() int {
	n := 0
	for p.check(lexer.Star) {
		p.advance()
		n++
	}
	return n
}

func (p *parser) parseInitializerList() (ast.Expression, *ParseError) {
	open := p.advance()
	elements := make([]ast.Expression, 0)
	for !p.check(lexer.RBrace) {
		if p.check(lexer.EOF) {
			return nil, unmatched(open, "}")
		}
		el, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		if _, ok := p.match(lexer.Comma); !ok && !p.check(lexer.RBrace) {
			if p.check(lexer.EOF) {
				return nil, unmatched(open, "}")
			}
			return nil, unexpectedToken(p.peek(), "',' or '}'")
		}
	}
	p.advance()
	return ast.At(ast.NewInitializerList(elements), open.Offset), nil
}

func (p *parser) parseFunctionDefinition(start lexer.Token, returnType string, name *ast.Identifier) (ast.Statement, *ParseError) {
	open := p.advance()
	params, err := p.parseParameters(open)
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.LBrace) {
		return nil, newError(CodeMissingToken, p.peek().Offset,
			"Add a body '{ ... }' after the parameter list of '"+name.Name+"'",
			"missing function body for '%s'", name.Name)
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewFunctionDefinition(returnType, name, params, body), start.Offset), nil
}

func (p *parser) parseParameters(open lexer.Token) ([]*ast.FunctionParameter, *ParseError) {
	params := make([]*ast.FunctionParameter, 0)
	if _, ok := p.match(lexer.RParen); ok {
		return params, nil
	}
	if p.checkKeyword("void") && p.peekAt(1).Kind == lexer.RParen {
		p.advance()
		p.advance()
		return params, nil
	}
	for {
		start := p.peek()
		if !start.IsTypeKeyword() {
			if start.Kind == lexer.EOF {
				return nil, unmatched(open, ")")
			}
			return nil, unexpectedToken(start, "a parameter type")
		}
		typeName := p.parseTypeName()
		pointers := p.parseStars()
		nameTok := p.peek()
		if nameTok.Kind != lexer.Identifier {
			return nil, newError(CodeMissingToken, nameTok.Offset,
				"Name the parameter, e.g. '"+typeName+" value'",
				"expected parameter name after type '%s'", typeName)
		}
		p.advance()
		isArray := false
		if bracket, ok := p.match(lexer.LBracket); ok {
			if err := p.expectClose(bracket, lexer.RBracket, "]"); err != nil {
				return nil, err
			}
			isArray = true
		}
		name := ast.At(ast.NewIdentifier(nameTok.Literal), nameTok.Offset)
		params = append(params, ast.At(ast.NewFunctionParameter(typeName, name, pointers, isArray), start.Offset))

		if _, ok := p.match(lexer.Comma); ok {
			continue
		}
		if err := p.expectClose(open, lexer.RParen, ")"); err != nil {
			return nil, err
		}
		return params, nil
	}
}
