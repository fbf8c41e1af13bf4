package lexer

import "fmt"

// TokenKind identifies the lexical category of a token.
type TokenKind int

const (
	EOF TokenKind = iota
	Invalid

	// Literals
	Number
	String
	Char
	Identifier
	Keyword
	Preprocessor

	// Operators
	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Caret         // ^
	Assign        // =
	Equal         // ==
	NotEqual      // !=
	Less          // <
	Greater       // >
	LessEqual     // <=
	GreaterEqual  // >=
	AndAnd        // &&
	OrOr          // ||
	Not           // !
	Amp           // &
	Pipe          // |
	Increment     // ++
	Decrement     // --
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	Arrow         // ->

	// Delimiters
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Colon     // :
	Dot       // .
)

var kindNames = map[TokenKind]string{
	EOF:           "EOF",
	Invalid:       "INVALID",
	Number:        "NUMBER",
	String:        "STRING",
	Char:          "CHAR",
	Identifier:    "IDENTIFIER",
	Keyword:       "KEYWORD",
	Preprocessor:  "PREPROCESSOR",
	Plus:          "PLUS",
	Minus:         "MINUS",
	Star:          "STAR",
	Slash:         "SLASH",
	Percent:       "PERCENT",
	Caret:         "CARET",
	Assign:        "ASSIGN",
	Equal:         "EQUAL",
	NotEqual:      "NOT_EQUAL",
	Less:          "LESS",
	Greater:       "GREATER",
	LessEqual:     "LESS_EQUAL",
	GreaterEqual:  "GREATER_EQUAL",
	AndAnd:        "AND",
	OrOr:          "OR",
	Not:           "NOT",
	Amp:           "AMPERSAND",
	Pipe:          "PIPE",
	Increment:     "INCREMENT",
	Decrement:     "DECREMENT",
	PlusAssign:    "PLUS_ASSIGN",
	MinusAssign:   "MINUS_ASSIGN",
	StarAssign:    "STAR_ASSIGN",
	SlashAssign:   "SLASH_ASSIGN",
	PercentAssign: "PERCENT_ASSIGN",
	Arrow:         "ARROW",
	LParen:        "LPAREN",
	RParen:        "RPAREN",
	LBrace:        "LBRACE",
	RBrace:        "RBRACE",
	LBracket:      "LBRACKET",
	RBracket:      "RBRACKET",
	Semicolon:     "SEMICOLON",
	Comma:         "COMMA",
	Colon:         "COLON",
	Dot:           "DOT",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Category groups token kinds the way diagnostics and mode selection talk about them.
type Category string

const (
	CategoryEOF          Category = "eof"
	CategoryInvalid      Category = "invalid"
	CategoryLiteral      Category = "literal"
	CategoryKeyword      Category = "keyword"
	CategoryPreprocessor Category = "preprocessor"
	CategoryOperator     Category = "operator"
	CategoryDelimiter    Category = "delimiter"
)

func (k TokenKind) Category() Category {
	switch {
	case k == EOF:
		return CategoryEOF
	case k == Invalid:
		return CategoryInvalid
	case k == Keyword:
		return CategoryKeyword
	case k == Preprocessor:
		return CategoryPreprocessor
	case k >= Number && k <= Identifier:
		return CategoryLiteral
	case k >= Plus && k <= Arrow:
		return CategoryOperator
	default:
		return CategoryDelimiter
	}
}

// Token is a single lexical unit. Literal holds the exact source text, quotes
// included for string and char literals.
type Token struct {
	Kind    TokenKind `json:"kind"`
	Literal string    `json:"literal"`
	Offset  int       `json:"offset"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Literal, t.Offset)
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind TokenKind) bool { return t.Kind == kind }

// IsKeyword reports whether the token is the named reserved word.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && t.Literal == word
}

// IsTypeKeyword reports whether the token can start a declaration.
func (t Token) IsTypeKeyword() bool {
	return t.Kind == Keyword && TypeKeywords[t.Literal]
}

// TypeKeywords are the reserved words that may start a declaration, including
// qualifiers that stack in front of a base type.
var TypeKeywords = map[string]bool{
	"int":      true,
	"float":    true,
	"double":   true,
	"char":     true,
	"void":     true,
	"long":     true,
	"short":    true,
	"unsigned": true,
	"signed":   true,
	"bool":     true,
	"const":    true,
	"static":   true,
}

// Keywords is the full reserved-word set.
var Keywords = map[string]bool{
	"if":       true,
	"else":     true,
	"while":    true,
	"do":       true,
	"for":      true,
	"switch":   true,
	"case":     true,
	"default":  true,
	"break":    true,
	"continue": true,
	"return":   true,
	"sizeof":   true,
	"struct":   true,
}

func init() {
	for word := range TypeKeywords {
		Keywords[word] = true
	}
}
