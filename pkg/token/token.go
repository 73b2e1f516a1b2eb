// Package token defines the lexical tokens of the formula language.
//
// Token types are fine-grained constants for switch performance; the coarse
// Kind classification mirrors the categories tooling cares about (literal,
// identifier, operator, separator).
package token

import "fmt"

// Type represents the type of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals
	IDENT    // Counter, 'Name with spaces'
	DISAMBIG // [@Ident]
	NUMBER   // 123, 45.67, 1e10 (decimal separator per locale)
	STRING   // "hello"
	TRUE     // true
	FALSE    // false

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	CARET   // ^
	PERCENT // %
	AMP     // &
	DAMP    // &&
	DPIPE   // ||
	EQ      // =
	NE      // <>
	LT      // <
	LE      // <=
	GT      // >
	GE      // >=
	BANG    // !  (prefix logical not, infix member access)
	DOT     // .

	// Keyword operators (exact case, whole-word only)
	AND     // And
	OR      // Or
	NOT     // Not
	IN      // in
	EXACTIN // exactin

	// Context keywords
	THISITEM   // ThisItem
	THISRECORD // ThisRecord
	SELF       // Self
	PARENT     // Parent

	// Separators
	LISTSEP  // , or ; per locale
	CHAINSEP // ; or ;; per locale
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	COLON    // :
)

// tokenNames maps token types to their string representations.
var tokenNames = map[Type]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:    "IDENT",
	DISAMBIG: "DISAMBIG",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	TRUE:     "true",
	FALSE:    "false",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	CARET:   "^",
	PERCENT: "%",
	AMP:     "&",
	DAMP:    "&&",
	DPIPE:   "||",
	EQ:      "=",
	NE:      "<>",
	LT:      "<",
	LE:      "<=",
	GT:      ">",
	GE:      ">=",
	BANG:    "!",
	DOT:     ".",

	AND:     "And",
	OR:      "Or",
	NOT:     "Not",
	IN:      "in",
	EXACTIN: "exactin",

	THISITEM:   "ThisItem",
	THISRECORD: "ThisRecord",
	SELF:       "Self",
	PARENT:     "Parent",

	LISTSEP:  "LISTSEP",
	CHAINSEP: "CHAINSEP",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",
	COLON:    ":",
}

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// keywords maps keyword lexemes to their token types. Lookup is
// case-sensitive: the language reserves the exact spellings only, so
// "AND" or "True" remain ordinary identifiers.
var keywords = map[string]Type{
	"true":       TRUE,
	"false":      FALSE,
	"And":        AND,
	"Or":         OR,
	"Not":        NOT,
	"in":         IN,
	"exactin":    EXACTIN,
	"ThisItem":   THISITEM,
	"ThisRecord": THISRECORD,
	"Self":       SELF,
	"Parent":     PARENT,
}

// LookupIdent returns the token type for the given identifier lexeme.
// Keyword recognition is whole-word by construction: the lexer only calls
// this after maximal-munch identifier scanning, so glued text like
// "Value1AndValue2" never reaches here as "And".
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeywordOperator returns true for the word-form operators And/Or/Not/in/exactin.
func IsKeywordOperator(t Type) bool {
	return t >= AND && t <= EXACTIN
}

// IsContextKeyword returns true for ThisItem/ThisRecord/Self/Parent.
func IsContextKeyword(t Type) bool {
	return t >= THISITEM && t <= PARENT
}

// IsOperator returns true if the token type is an operator, including the
// keyword operators.
func IsOperator(t Type) bool {
	return t >= PLUS && t <= EXACTIN
}

// Kind is the coarse lexical category of a token.
type Kind int

// Kind constants for the coarse token categories.
const (
	KindSpecial Kind = iota
	KindLogicalLiteral
	KindNumberLiteral
	KindTextLiteral
	KindIdentifier
	KindDisambiguatedIdentifier
	KindOperator
	KindSeparator
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLogicalLiteral:
		return "LogicalLiteral"
	case KindNumberLiteral:
		return "NumberLiteral"
	case KindTextLiteral:
		return "TextLiteral"
	case KindIdentifier:
		return "Identifier"
	case KindDisambiguatedIdentifier:
		return "DisambiguatedIdentifier"
	case KindOperator:
		return "Operator"
	case KindSeparator:
		return "Separator"
	default:
		return "Special"
	}
}

// KindOf classifies a token type into its coarse category.
func KindOf(t Type) Kind {
	switch {
	case t == TRUE || t == FALSE:
		return KindLogicalLiteral
	case t == NUMBER:
		return KindNumberLiteral
	case t == STRING:
		return KindTextLiteral
	case t == IDENT || IsContextKeyword(t):
		return KindIdentifier
	case t == DISAMBIG:
		return KindDisambiguatedIdentifier
	case IsOperator(t):
		return KindOperator
	case t >= LISTSEP && t <= COLON:
		return KindSeparator
	default:
		return KindSpecial
	}
}

// Token represents a lexical token with source span information.
// Tokens are immutable values.
type Token struct {
	Type    Type
	Literal string
	Span    Span
}

// Pos returns the token's start position.
func (t Token) Pos() Position {
	return t.Span.Start
}
