package parser

import (
	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
)

// Binary precedence levels from loosest to tightest. Power sits below the
// last level and is handled separately because it is right-associative.
var binaryLevels = []map[lexer.TokenKind]string{
	{lexer.OrOr: "||"},
	{lexer.AndAnd: "&&"},
	{lexer.Equal: "==", lexer.NotEqual: "!="},
	{lexer.Less: "<", lexer.Greater: ">", lexer.LessEqual: "<=", lexer.GreaterEqual: ">="},
	{lexer.Plus: "+", lexer.Minus: "-"},
	{lexer.Star: "*", lexer.Slash: "/", lexer.Percent: "%"},
}

var assignmentOperators = map[lexer.TokenKind]ast.AssignmentOperator{
	lexer.Assign:        ast.AssignmentAssign,
	lexer.PlusAssign:    ast.AssignmentAdd,
	lexer.MinusAssign:   ast.AssignmentSub,
	lexer.StarAssign:    ast.AssignmentMul,
	lexer.SlashAssign:   ast.AssignmentDiv,
	lexer.PercentAssign: ast.AssignmentMod,
}

func (p *parser) parseExpression() (ast.Expression, *ParseError) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(level int) (ast.Expression, *ParseError) {
	if level == len(binaryLevels) {
		return p.parsePower()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryLevels[level][p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinaryExpression(op, left, right), left.Offset())
	}
}

func (p *parser) parsePower() (ast.Expression, *ParseError) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(lexer.Caret); !ok {
		return base, nil
	}
	exponent, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewBinaryExpression("^", base, exponent), base.Offset()), nil
}

func (p *parser) parsePrimary() (ast.Expression, *ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		return parseNumberLiteral(tok)
	case lexer.String:
		p.advance()
		return parseStringLiteral(tok)
	case lexer.Char:
		p.advance()
		return parseCharLiteral(tok)
	case lexer.Identifier:
		target, err := p.parsePostfixOperand()
		if err != nil {
			return nil, err
		}
		return p.parsePostfixUpdate(target)
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(tok, lexer.RParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.Increment, lexer.Decrement:
		p.advance()
		if !p.check(lexer.Identifier) {
			return nil, unexpectedToken(p.peek(), "a variable after '"+tok.Literal+"'")
		}
		target, err := p.parsePostfixOperand()
		if err != nil {
			return nil, err
		}
		assignable, ok := target.(ast.AssignmentTarget)
		if !ok {
			return nil, newError(CodeUnexpectedToken, target.Offset(), "Apply '"+tok.Literal+"' to a variable or array element", "cannot apply '%s' to a function call", tok.Literal)
		}
		return ast.At(ast.NewUpdateExpression(tok.Literal, true, assignable), tok.Offset), nil
	case lexer.Not, lexer.Amp, lexer.Star, lexer.Minus, lexer.Plus:
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewUnaryExpression(unaryOperators[tok.Kind], operand), tok.Offset), nil
	}
	if tok.Kind == lexer.EOF {
		return nil, unexpectedToken(tok, "an expression")
	}
	if isCloser(tok.Kind) {
		return nil, newError(CodeUnexpectedToken, tok.Offset, "Add an operand before '"+tok.Literal+"'", "expected an expression before '%s'", tok.Literal)
	}
	return nil, unexpectedToken(tok, "an expression")
}

var unaryOperators = map[lexer.TokenKind]ast.UnaryOperator{
	lexer.Not:   ast.UnaryNot,
	lexer.Amp:   ast.UnaryAddressOf,
	lexer.Star:  ast.UnaryDereference,
	lexer.Minus: ast.UnaryNegate,
	lexer.Plus:  ast.UnaryPlus,
}

// parsePostfixOperand parses an identifier with an optional subscript or
// call suffix.
func (p *parser) parsePostfixOperand() (ast.Expression, *ParseError) {
	tok := p.advance()
	id := ast.At(ast.NewIdentifier(tok.Literal), tok.Offset)
	switch open := p.peek(); open.Kind {
	case lexer.LBracket:
		p.advance()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(open, lexer.RBracket, "]"); err != nil {
			return nil, err
		}
		return ast.At(ast.NewArrayAccess(id, index), tok.Offset), nil
	case lexer.LParen:
		p.advance()
		args, err := p.parseArguments(open)
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewFunctionCall(id, args), tok.Offset), nil
	}
	return id, nil
}

func (p *parser) parseArguments(open lexer.Token) ([]ast.Expression, *ParseError) {
	args := make([]ast.Expression, 0)
	if _, ok := p.match(lexer.RParen); ok {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if _, ok := p.match(lexer.Comma); ok {
			continue
		}
		if err := p.expectClose(open, lexer.RParen, ")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) parsePostfixUpdate(expr ast.Expression) (ast.Expression, *ParseError) {
	tok := p.peek()
	if tok.Kind != lexer.Increment && tok.Kind != lexer.Decrement {
		return expr, nil
	}
	target, ok := expr.(ast.AssignmentTarget)
	if !ok {
		return nil, newError(CodeUnexpectedToken, tok.Offset, "Apply '"+tok.Literal+"' to a variable or array element", "cannot apply '%s' to a function call", tok.Literal)
	}
	p.advance()
	return ast.At(ast.NewUpdateExpression(tok.Literal, false, target), expr.Offset()), nil
}

// parseAssignment parses an expression that may be the left side of a plain
// or compound assignment. Assignment is right-associative.
func (p *parser) parseAssignment() (ast.Expression, *ParseError) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	opTok := p.peek()
	op, ok := assignmentOperators[opTok.Kind]
	if !ok {
		return left, nil
	}
	target, ok := assignable(left)
	if !ok {
		return nil, newError(CodeUnexpectedToken, opTok.Offset, "Assign to a variable, an array element or a dereferenced pointer", "invalid assignment target before '%s'", opTok.Literal)
	}
	p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewAssignment(op, target, value), left.Offset()), nil
}

func assignable(expr ast.Expression) (ast.AssignmentTarget, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e, true
	case *ast.ArrayAccess:
		return e, true
	case *ast.UnaryExpression:
		if e.Operator == ast.UnaryDereference {
			return e, true
		}
	}
	return nil, false
}
