// Package lexer turns source text into the token stream consumed by the parser.
//
// Tokenize never fails: characters it does not recognise become Invalid
// tokens and the parser decides what to do with them.
package lexer

import (
	"strings"
	"unicode/utf8"
)

type twoCharOp struct {
	next rune
	kind TokenKind
}

// Two-character operators, tried before the single-character fallback so the
// longest operator always wins.
var twoCharOps = map[rune][]twoCharOp{
	'=': {{'=', Equal}},
	'!': {{'=', NotEqual}},
	'<': {{'=', LessEqual}},
	'>': {{'=', GreaterEqual}},
	'&': {{'&', AndAnd}},
	'|': {{'|', OrOr}},
	'+': {{'+', Increment}, {'=', PlusAssign}},
	'-': {{'-', Decrement}, {'=', MinusAssign}, {'>', Arrow}},
	'*': {{'=', StarAssign}},
	'/': {{'=', SlashAssign}},
	'%': {{'=', PercentAssign}},
}

var oneCharOps = map[rune]TokenKind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'^': Caret,
	'=': Assign,
	'<': Less,
	'>': Greater,
	'!': Not,
	'&': Amp,
	'|': Pipe,
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	';': Semicolon,
	',': Comma,
	':': Colon,
	'.': Dot,
}

// Lexer scans a single trimmed input. Use Tokenize unless you need to drive
// the scan token by token.
type Lexer struct {
	input string
	pos   int
}

// NewLexer trims surrounding whitespace so token offsets are relative to the
// trimmed text.
func NewLexer(source string) *Lexer {
	return &Lexer{input: strings.TrimSpace(source)}
}

// Tokenize returns every token in source followed by exactly one EOF token
// whose offset equals the trimmed input length.
func Tokenize(source string) []Token {
	l := NewLexer(source)
	tokens := make([]Token, 0, len(l.input)/2+1)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}

// Input returns the trimmed text being scanned.
func (l *Lexer) Input() string { return l.input }

// Next returns the next token; once input is exhausted it keeps returning EOF.
func (l *Lexer) Next() Token {
	l.skipTrivia()
	if l.pos >= len(l.input) {
		return Token{Kind: EOF, Offset: len(l.input)}
	}

	start := l.pos
	ch, width := utf8.DecodeRuneInString(l.input[l.pos:])

	switch {
	case ch == '#':
		return l.scanPreprocessor()
	case ch == '"':
		return l.scanQuoted('"', String)
	case ch == '\'':
		return l.scanQuoted('\'', Char)
	case isDigit(ch):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdentifier()
	}

	if candidates, ok := twoCharOps[ch]; ok && l.pos+1 < len(l.input) {
		next := rune(l.input[l.pos+1])
		for _, op := range candidates {
			if op.next == next {
				l.pos += 2
				return Token{Kind: op.kind, Literal: l.input[start:l.pos], Offset: start}
			}
		}
	}
	if kind, ok := oneCharOps[ch]; ok {
		l.pos++
		return Token{Kind: kind, Literal: l.input[start:l.pos], Offset: start}
	}

	l.pos += width
	return Token{Kind: Invalid, Literal: l.input[start:l.pos], Offset: start}
}

// skipTrivia consumes whitespace and comments. An unterminated block comment
// swallows the rest of the input.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case strings.HasPrefix(l.input[l.pos:], "//"):
			end := strings.IndexByte(l.input[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.input)
				return
			}
			l.pos += end + 1
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				l.pos = len(l.input)
				return
			}
			l.pos += 2 + end + 2
		default:
			return
		}
	}
}

func (l *Lexer) scanPreprocessor() Token {
	start := l.pos
	end := strings.IndexByte(l.input[l.pos:], '\n')
	if end < 0 {
		l.pos = len(l.input)
	} else {
		l.pos += end
	}
	text := strings.TrimRight(l.input[start:l.pos], "\r")
	return Token{Kind: Preprocessor, Literal: text, Offset: start}
}

// scanQuoted reads a string or char literal. A backslash always travels with
// the character after it; a missing closing quote consumes to end of input.
func (l *Lexer) scanQuoted(quote byte, kind TokenKind) Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' {
			l.pos += 2
			if l.pos > len(l.input) {
				l.pos = len(l.input)
			}
			continue
		}
		l.pos++
		if c == quote {
			break
		}
	}
	return Token{Kind: kind, Literal: l.input[start:l.pos], Offset: start}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '.' && !seenDot {
			seenDot = true
			l.pos++
			continue
		}
		if !isDigit(rune(c)) {
			break
		}
		l.pos++
	}
	return Token{Kind: Number, Literal: l.input[start:l.pos], Offset: start}
}

func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(rune(l.input[l.pos])) {
		l.pos++
	}
	word := l.input[start:l.pos]
	if Keywords[word] {
		return Token{Kind: Keyword, Literal: word, Offset: start}
	}
	return Token{Kind: Identifier, Literal: word, Offset: start}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
