package parser

import (
	"fmt"

	"github.com/vishnuhala/parse-and-fix/pkg/lexer"
)

// ErrorCode classifies a ParseError.
type ErrorCode string

const (
	CodeEmptyExpression    ErrorCode = "empty_expression"
	CodeInvalidCharacter   ErrorCode = "invalid_character"
	CodeUnexpectedToken    ErrorCode = "unexpected_token"
	CodeMissingToken       ErrorCode = "missing_token"
	CodeUnmatchedDelimiter ErrorCode = "unmatched_delimiter"
)

// ParseError describes one structural problem with the input, where it was
// found, and what would fix it. Offset is a byte offset into the trimmed source.
type ParseError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Offset     int       `json:"offset"`
	Suggestion string    `json:"suggestion"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

func newError(code ErrorCode, offset int, suggestion, format string, args ...any) *ParseError {
	return &ParseError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Offset:     offset,
		Suggestion: suggestion,
	}
}

func emptyInputError() *ParseError {
	return newError(CodeEmptyExpression, 0, "Enter an arithmetic expression such as '2 + 3' or a C statement", "empty expression")
}

func invalidCharacterError(tok lexer.Token) *ParseError {
	return newError(CodeInvalidCharacter, tok.Offset,
		fmt.Sprintf("Remove or replace %q; it is not part of the language", tok.Literal),
		"invalid character %q", tok.Literal)
}

// unexpectedToken reports tok where something else was required. Reaching EOF
// is reported as a missing token since the fix is to add text, not remove it.
func unexpectedToken(tok lexer.Token, expected string) *ParseError {
	if tok.Kind == lexer.EOF {
		return newError(CodeMissingToken, tok.Offset,
			fmt.Sprintf("Add %s at the end of the input", expected),
			"unexpected end of input, expected %s", expected)
	}
	return newError(CodeUnexpectedToken, tok.Offset,
		fmt.Sprintf("Replace %s with %s", describe(tok), expected),
		"unexpected %s, expected %s", describe(tok), expected)
}

func missingToken(tok lexer.Token, what, suggestion string) *ParseError {
	return newError(CodeMissingToken, tok.Offset, suggestion, "missing %s before %s", what, describe(tok))
}

// unmatched reports a delimiter that was never closed. The offset points at
// the opening delimiter.
func unmatched(open lexer.Token, close string) *ParseError {
	name := delimiterNames[open.Kind]
	return newError(CodeUnmatchedDelimiter, open.Offset,
		fmt.Sprintf("Add '%s' to close the %s opened here", close, name),
		"missing closing %s", name)
}

func strayCloser(tok lexer.Token) *ParseError {
	return newError(CodeUnmatchedDelimiter, tok.Offset,
		fmt.Sprintf("Remove %q or add its opening partner earlier", tok.Literal),
		"unmatched %q", tok.Literal)
}

func unterminatedLiteral(tok lexer.Token, quote string) *ParseError {
	return newError(CodeMissingToken, tok.Offset,
		fmt.Sprintf("Close the literal with %s", quote),
		"unterminated literal %s", tok.Literal)
}

var delimiterNames = map[lexer.TokenKind]string{
	lexer.LParen:   "parenthesis",
	lexer.LBrace:   "brace",
	lexer.LBracket: "bracket",
}

func isCloser(kind lexer.TokenKind) bool {
	return kind == lexer.RParen || kind == lexer.RBrace || kind == lexer.RBracket
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.EOF:
		return "end of input"
	case lexer.Keyword:
		return fmt.Sprintf("keyword '%s'", tok.Literal)
	case lexer.Identifier:
		return fmt.Sprintf("identifier '%s'", tok.Literal)
	case lexer.Number:
		return fmt.Sprintf("number %s", tok.Literal)
	case lexer.String, lexer.Char:
		return fmt.Sprintf("literal %s", tok.Literal)
	default:
		return fmt.Sprintf("'%s'", tok.Literal)
	}
}
