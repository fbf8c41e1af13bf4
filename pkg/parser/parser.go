// Package parser builds syntax trees from lexer tokens.
//
// Input that contains any keyword, semicolon, brace or preprocessor line is
// parsed as a program; anything else is parsed as a single arithmetic
// expression. Parsing stops at the first structural error.
package parser

import (
	"strings"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
)

// Mode is the grammar a parse ran under.
type Mode string

const (
	ModeExpression Mode = "expression"
	ModeProgram    Mode = "program"
)

// ParseResult is the outcome of one parse. Tree is set iff Success; Errors is
// non-empty iff not Success. Partial holds a complete tree that was followed
// by unconsumed input.
type ParseResult struct {
	Success bool         `json:"success"`
	Mode    Mode         `json:"mode"`
	Tree    ast.Node     `json:"tree,omitempty"`
	Errors  []ParseError `json:"errors,omitempty"`
	Partial ast.Node     `json:"partial,omitempty"`
}

// Err returns the first error as an error value, or nil on success.
func (r ParseResult) Err() error {
	if r.Success || len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

func failed(mode Mode, err *ParseError) ParseResult {
	return ParseResult{Mode: mode, Errors: []ParseError{*err}}
}

// Parse tokenizes and parses source.
func Parse(source string) ParseResult {
	if strings.TrimSpace(source) == "" {
		return failed(ModeExpression, emptyInputError())
	}
	return ParseTokens(lexer.Tokenize(source))
}

// ParseTokens parses an already tokenized input. The slice must end with an
// EOF token, as lexer.Tokenize guarantees.
func ParseTokens(tokens []lexer.Token) ParseResult {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		tokens = append(append([]lexer.Token(nil), tokens...), lexer.Token{Kind: lexer.EOF, Offset: endOffset(tokens)})
	}
	if len(tokens) == 1 {
		return failed(ModeExpression, emptyInputError())
	}
	for _, tok := range tokens {
		if tok.Kind == lexer.Invalid {
			return failed(DetectMode(tokens), invalidCharacterError(tok))
		}
	}

	mode := DetectMode(tokens)
	p := &parser{tokens: tokens}
	var (
		tree ast.Node
		perr *ParseError
	)
	if mode == ModeProgram {
		tree, perr = p.parseProgram()
	} else {
		tree, perr = p.parseExpression()
	}
	if perr != nil {
		return failed(mode, perr)
	}

	if tok := p.peek(); tok.Kind != lexer.EOF {
		perr = unexpectedToken(tok, "end of input")
		if isCloser(tok.Kind) {
			perr = strayCloser(tok)
		}
		return ParseResult{Mode: mode, Errors: []ParseError{*perr}, Partial: tree}
	}
	return ParseResult{Success: true, Mode: mode, Tree: tree}
}

// DetectMode picks the grammar for tokens.
func DetectMode(tokens []lexer.Token) Mode {
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.Keyword, lexer.Semicolon, lexer.LBrace, lexer.RBrace, lexer.Preprocessor:
			return ModeProgram
		}
	}
	return ModeExpression
}

func endOffset(tokens []lexer.Token) int {
	if len(tokens) == 0 {
		return 0
	}
	last := tokens[len(tokens)-1]
	return last.Offset + len(last.Literal)
}

// parser owns the cursor for a single parse call.
type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parser) checkKeyword(word string) bool {
	return p.peek().IsKeyword(word)
}

func (p *parser) match(kinds ...lexer.TokenKind) (lexer.Token, bool) {
	tok := p.peek()
	for _, kind := range kinds {
		if tok.Kind == kind {
			p.advance()
			return tok, true
		}
	}
	return tok, false
}

// expectSemicolon consumes the ';' that ends a statement.
func (p *parser) expectSemicolon(after string) *ParseError {
	if _, ok := p.match(lexer.Semicolon); ok {
		return nil
	}
	return missingToken(p.peek(), "';'", "Add ';' after "+after)
}

// expectClose consumes the closer for open, reporting the opener if absent.
func (p *parser) expectClose(open lexer.Token, close lexer.TokenKind, text string) *ParseError {
	if _, ok := p.match(close); ok {
		return nil
	}
	return unmatched(open, text)
}

// expectOpen consumes a required opening delimiter following a keyword.
func (p *parser) expectOpen(kind lexer.TokenKind, text, after string) (lexer.Token, *ParseError) {
	tok, ok := p.match(kind)
	if ok {
		return tok, nil
	}
	return tok, newError(CodeMissingToken, tok.Offset,
		"Add '"+text+"' after "+after,
		"expected '%s' after %s", text, after)
}
