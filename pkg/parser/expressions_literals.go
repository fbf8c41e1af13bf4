package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
)

func parseNumberLiteral(tok lexer.Token) (ast.Expression, *ParseError) {
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, newError(CodeUnexpectedToken, tok.Offset, "Write the number as digits with at most one decimal point", "malformed number %s", tok.Literal)
	}
	return ast.At(ast.NewNumberLiteral(value, tok.Literal), tok.Offset), nil
}

func parseStringLiteral(tok lexer.Token) (ast.Expression, *ParseError) {
	text, closed := decodeQuoted(tok.Literal, '"')
	if !closed {
		return nil, unterminatedLiteral(tok, `'"'`)
	}
	return ast.At(ast.NewStringLiteral(text), tok.Offset), nil
}

func parseCharLiteral(tok lexer.Token) (ast.Expression, *ParseError) {
	text, closed := decodeQuoted(tok.Literal, '\'')
	if !closed {
		return nil, unterminatedLiteral(tok, `"'"`)
	}
	if text == "" {
		return nil, newError(CodeUnexpectedToken, tok.Offset, "Put exactly one character between the quotes", "empty character literal")
	}
	r, _ := utf8.DecodeRuneInString(text)
	return ast.At(ast.NewCharLiteral(r), tok.Offset), nil
}

// decodeQuoted strips the quotes from a raw literal and resolves escapes.
// closed is false when the literal never reached its closing quote.
func decodeQuoted(raw string, quote byte) (string, bool) {
	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\':
			if i+1 >= len(raw) {
				return b.String(), false
			}
			i++
			b.WriteByte(unescape(raw[i]))
		case c == quote:
			return b.String(), i == len(raw)-1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), false
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}
