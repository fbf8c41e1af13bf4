package parser

import (
	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
)

func (p *parser) parseProgram() (*ast.Program, *ParseError) {
	start := p.peek().Offset
	body := make([]ast.Statement, 0)
	for !p.check(lexer.EOF) {
		if isCloser(p.peek().Kind) {
			return nil, strayCloser(p.peek())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return ast.At(ast.NewProgram(body), start), nil
}

// parseStatement returns a nil statement for a lone ';'.
func (p *parser) parseStatement() (ast.Statement, *ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Preprocessor:
		p.advance()
		return ast.At(ast.NewPreprocessorDirective(tok.Literal), tok.Offset), nil
	case lexer.Semicolon:
		p.advance()
		return nil, nil
	case lexer.LBrace:
		return p.parseBlock()
	case lexer.Keyword:
		return p.parseKeywordStatement(tok)
	}

	expr, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon("the statement"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseKeywordStatement(tok lexer.Token) (ast.Statement, *ParseError) {
	if tok.IsTypeKeyword() {
		return p.parseDeclaration(true)
	}
	switch tok.Literal {
	case "if":
		return p.parseIf()
	case "while":
		return p.parseWhile()
	case "do":
		return p.parseDoWhile()
	case "for":
		return p.parseFor()
	case "switch":
		return p.parseSwitch()
	case "return":
		p.advance()
		if _, ok := p.match(lexer.Semicolon); ok {
			return ast.At(ast.NewReturnStatement(nil), tok.Offset), nil
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectSemicolon("the return value"); err != nil {
			return nil, err
		}
		return ast.At(ast.NewReturnStatement(value), tok.Offset), nil
	case "break":
		p.advance()
		if err := p.expectSemicolon("'break'"); err != nil {
			return nil, err
		}
		return ast.At(ast.NewBreakStatement(), tok.Offset), nil
	case "continue":
		p.advance()
		if err := p.expectSemicolon("'continue'"); err != nil {
			return nil, err
		}
		return ast.At(ast.NewContinueStatement(), tok.Offset), nil
	case "else":
		return nil, newError(CodeUnexpectedToken, tok.Offset, "Remove 'else' or attach it to an 'if' statement", "'else' without a matching 'if'")
	case "case", "default":
		return nil, newError(CodeUnexpectedToken, tok.Offset, "Move the label inside a 'switch' body", "'%s' label outside of a switch", tok.Literal)
	}
	return nil, newError(CodeUnexpectedToken, tok.Offset, "Remove '"+tok.Literal+"'; it is not supported", "unsupported keyword '%s'", tok.Literal)
}

func (p *parser) parseBlock() (*ast.Block, *ParseError) {
	open := p.advance()
	body := make([]ast.Statement, 0)
	for !p.check(lexer.RBrace) {
		if p.check(lexer.EOF) {
			return nil, unmatched(open, "}")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.advance()
	return ast.At(ast.NewBlock(body), open.Offset), nil
}

// parseBody parses a loop or branch body, turning a lone ';' into an empty block.
func (p *parser) parseBody() (ast.Statement, *ParseError) {
	offset := p.peek().Offset
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return ast.At(ast.NewBlock(nil), offset), nil
	}
	return stmt, nil
}

// parseCondition parses `( expr )` after a keyword.
func (p *parser) parseCondition(keyword string) (ast.Expression, *ParseError) {
	open, err := p.expectOpen(lexer.LParen, "(", "'"+keyword+"'")
	if err != nil {
		return nil, err
	}
	if p.check(lexer.RParen) {
		return nil, newError(CodeMissingToken, p.peek().Offset, "Put a condition inside the parentheses", "empty condition in '%s'", keyword)
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectClose(open, lexer.RParen, ")"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseIf() (ast.Statement, *ParseError) {
	tok := p.advance()
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	var alt ast.Statement
	if p.checkKeyword("else") {
		p.advance()
		if alt, err = p.parseBody(); err != nil {
			return nil, err
		}
	}
	return ast.At(ast.NewIfStatement(cond, then, alt), tok.Offset), nil
}

func (p *parser) parseWhile() (ast.Statement, *ParseError) {
	tok := p.advance()
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewWhileLoop(cond, body), tok.Offset), nil
}

func (p *parser) parseDoWhile() (ast.Statement, *ParseError) {
	tok := p.advance()
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if !p.checkKeyword("while") {
		return nil, missingToken(p.peek(), "'while'", "Add 'while (condition);' after the do body")
	}
	p.advance()
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon("the do-while condition"); err != nil {
		return nil, err
	}
	return ast.At(ast.NewDoWhileLoop(body, cond), tok.Offset), nil
}

func (p *parser) parseFor() (ast.Statement, *ParseError) {
	tok := p.advance()
	open, err := p.expectOpen(lexer.LParen, "(", "'for'")
	if err != nil {
		return nil, err
	}

	var init ast.Statement
	if !p.check(lexer.Semicolon) {
		if p.peek().IsTypeKeyword() {
			init, err = p.parseDeclaration(false)
		} else {
			init, err = p.parseAssignment()
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectSemicolon("the for-loop initializer"); err != nil {
		return nil, err
	}

	var cond ast.Expression
	if !p.check(lexer.Semicolon) {
		if cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.expectSemicolon("the for-loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Statement
	if !p.check(lexer.RParen) {
		if increment, err = p.parseAssignment(); err != nil {
			return nil, err
		}
	}
	if err := p.expectClose(open, lexer.RParen, ")"); err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewForLoop(init, cond, increment, body), tok.Offset), nil
}

func (p *parser) parseSwitch() (ast.Statement, *ParseError) {
	tok := p.advance()
	open, err := p.expectOpen(lexer.LParen, "(", "'switch'")
	if err != nil {
		return nil, err
	}
	if p.check(lexer.RParen) {
		return nil, newError(CodeMissingToken, p.peek().Offset, "Put the value to switch on inside the parentheses", "empty switch target")
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectClose(open, lexer.RParen, ")"); err != nil {
		return nil, err
	}
	brace, err := p.expectOpen(lexer.LBrace, "{", "the switch target")
	if err != nil {
		return nil, err
	}

	var (
		cases []*ast.SwitchCase
		def   []ast.Statement
		body  *[]ast.Statement
	)
	cases = make([]*ast.SwitchCase, 0)
	for !p.check(lexer.RBrace) {
		label := p.peek()
		switch {
		case label.Kind == lexer.EOF:
			return nil, unmatched(brace, "}")
		case label.IsKeyword("case"):
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectLabelColon(); err != nil {
				return nil, err
			}
			c := ast.At(ast.NewSwitchCase(value, make([]ast.Statement, 0)), label.Offset)
			cases = append(cases, c)
			body = &c.Body
		case label.IsKeyword("default"):
			if def != nil {
				return nil, newError(CodeUnexpectedToken, label.Offset, "Remove the second 'default' label", "duplicate 'default' label in switch")
			}
			p.advance()
			if err := p.expectLabelColon(); err != nil {
				return nil, err
			}
			def = make([]ast.Statement, 0)
			body = &def
		case body == nil:
			return nil, unexpectedToken(label, "'case' or 'default'")
		default:
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			if stmt != nil {
				*body = append(*body, stmt)
			}
		}
	}
	p.advance()
	return ast.At(ast.NewSwitchStatement(test, cases, def), tok.Offset), nil
}

func (p *parser) expectLabelColon() *ParseError {
	if _, ok := p.match(lexer.Colon); ok {
		return nil
	}
	return missingToken(p.peek(), "':'", "Add ':' after the case label")
}
