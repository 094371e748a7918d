// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Type classifies a Token.
type Type int

const (
	// special
	EOF Type = iota

	// keywords
	DEF
	EXTERN
	IF
	THEN
	ELSE
	FOR
	IN
	BINARY
	UNARY
	VAR

	// identifiers and literals
	IDENTIFIER
	NUMBER

	// punctuation
	LPAREN
	RPAREN
	COMMA
	SEMICOLON

	// a single, otherwise-unclassified printable character. Its identity
	// is carried in Op; most operators (+, -, *, <, user-defined ones,
	// and = for assignment) arrive as this variant.
	OPERATOR
)

// KeyWords maps the reserved identifier spellings to their Type.
var KeyWords = map[string]Type{
	"def":    DEF,
	"extern": EXTERN,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"for":    FOR,
	"in":     IN,
	"binary": BINARY,
	"unary":  UNARY,
	"var":    VAR,
}

var typeNames = map[Type]string{
	EOF:        "EOF",
	DEF:        "def",
	EXTERN:     "extern",
	IF:         "if",
	THEN:       "then",
	ELSE:       "else",
	FOR:        "for",
	IN:         "in",
	BINARY:     "binary",
	UNARY:      "unary",
	VAR:        "var",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	LPAREN:     "(",
	RPAREN:     ")",
	COMMA:      ",",
	SEMICOLON:  ";",
	OPERATOR:   "OPERATOR",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Token is a single lexical unit with enough context for diagnostics.
//
// Ident carries the identifier's spelling for IDENTIFIER tokens, Num
// carries the decoded value for NUMBER tokens, and Op carries the
// operator rune for OPERATOR tokens. Line is a 1-based source line
// counter; per spec.md's non-goals, no column or byte-offset tracking
// is kept.
type Token struct {
	Type  Type
	Ident string
	Num   float64
	Op    rune
	Line  int
}

// New constructs a Token that needs no payload (keywords, punctuation,
// EOF).
func New(t Type, line int) Token {
	return Token{Type: t, Line: line}
}

// NewIdentifier constructs an IDENTIFIER token.
func NewIdentifier(name string, line int) Token {
	return Token{Type: IDENTIFIER, Ident: name, Line: line}
}

// NewNumber constructs a NUMBER token.
func NewNumber(value float64, line int) Token {
	return Token{Type: NUMBER, Num: value, Line: line}
}

// NewOperator constructs an OPERATOR token for a single character.
func NewOperator(op rune, line int) Token {
	return Token{Type: OPERATOR, Op: op, Line: line}
}

// String renders the token for diagnostics and test failure messages.
func (t Token) String() string {
	switch t.Type {
	case IDENTIFIER:
		return fmt.Sprintf("Identifier(%s)", t.Ident)
	case NUMBER:
		return fmt.Sprintf("Number(%v)", t.Num)
	case OPERATOR:
		return fmt.Sprintf("Operator(%c)", t.Op)
	default:
		return t.Type.String()
	}
}
