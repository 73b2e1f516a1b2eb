package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
	"github.com/fxtools/fxlint/pkg/token"
)

// Lexer tokenizes formula text.
//
// The input is the formula body with the leading '=' marker already stripped
// by the document loader. The lexer is locale-aware: the decimal, list, and
// chaining separators come from the supplied profile. Lex failures emit
// ILLEGAL tokens plus diagnostics and resynchronize, so one bad token does
// not hide the rest of the formula.
type Lexer struct {
	input   string
	pos     int  // byte offset of current rune
	readPos int  // byte offset after current rune
	ch      rune // current rune under examination
	line    int  // current line number within the formula (1-based)
	col     int  // current column number within the formula (1-based)
	profile locale.Profile
	base    token.Position // position of the formula within its document

	// Comments collected during lexing (for round-trip formatting)
	Comments []*token.Comment

	diags diag.List
}

// NewLexer creates a Lexer for the given formula text and locale profile.
func NewLexer(input string, profile locale.Profile) *Lexer {
	return NewLexerAt(input, profile, token.Position{Line: 1, Column: 1, Offset: 0})
}

// NewLexerAt creates a Lexer whose reported positions are offset by base,
// the position of the formula's first character within its host document.
func NewLexerAt(input string, profile locale.Profile, base token.Position) *Lexer {
	l := &Lexer{
		input:   input,
		profile: profile,
		base:    base,
		line:    1,
		col:     0,
	}
	l.readChar()
	return l
}

// Diagnostics returns the lex errors accumulated so far.
func (l *Lexer) Diagnostics() diag.List {
	return l.diags
}

// readChar advances to the next rune.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.readPos++
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.pos = l.readPos
	l.readPos += size
	l.ch = r

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next rune without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// currentPos returns the current position in document coordinates.
func (l *Lexer) currentPos() token.Position {
	p := token.Position{
		Line:   l.base.Line + l.line - 1,
		Column: l.col,
		Offset: l.base.Offset + l.pos,
	}
	if l.line == 1 {
		p.Column += l.base.Column - 1
	}
	return p
}

// span builds a span from start to the current position.
func (l *Lexer) span(start token.Position) token.Span {
	return token.Span{Start: start, End: l.currentPos()}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.currentPos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Span: token.Span{Start: start, End: start}}
	case '+':
		return l.single(token.PLUS, start)
	case '-':
		return l.single(token.MINUS, start)
	case '*':
		return l.single(token.STAR, start)
	case '/':
		return l.single(token.SLASH, start)
	case '^':
		return l.single(token.CARET, start)
	case '%':
		return l.single(token.PERCENT, start)
	case '=':
		return l.single(token.EQ, start)
	case '!':
		return l.single(token.BANG, start)
	case '.':
		// A leading decimal point starts a number in dot-decimal locales.
		if l.profile.Decimal == '.' && isDigit(l.peekChar()) {
			return l.readNumber(start)
		}
		return l.single(token.DOT, start)
	case '&':
		if l.peekChar() == '&' {
			return l.double(token.DAMP, "&&", start)
		}
		return l.single(token.AMP, start)
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE, "||", start)
		}
		return l.invalidChar(start)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE, "<=", start)
		case '>':
			return l.double(token.NE, "<>", start)
		}
		return l.single(token.LT, start)
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, ">=", start)
		}
		return l.single(token.GT, start)
	case ',':
		if l.profile.List == ',' {
			return l.single(token.LISTSEP, start)
		}
		// In comma-decimal locales a comma only appears inside a number
		// literal; a bare one is not a token.
		return l.invalidChar(start)
	case ';':
		if l.profile.Chain == ";;" {
			if l.peekChar() == ';' {
				return l.double(token.CHAINSEP, ";;", start)
			}
			return l.single(token.LISTSEP, start)
		}
		return l.single(token.CHAINSEP, start)
	case ':':
		return l.single(token.COLON, start)
	case '(':
		return l.single(token.LPAREN, start)
	case ')':
		return l.single(token.RPAREN, start)
	case '{':
		return l.single(token.LBRACE, start)
	case '}':
		return l.single(token.RBRACE, start)
	case '[':
		if l.peekChar() == '@' {
			return l.readDisambiguated(start)
		}
		return l.single(token.LBRACKET, start)
	case ']':
		return l.single(token.RBRACKET, start)
	case '"':
		return l.readString(start)
	case '\'':
		return l.readQuotedIdentifier(start)
	default:
		switch {
		case isIdentStart(l.ch):
			return l.readIdentifier(start)
		case isDigit(l.ch):
			return l.readNumber(start)
		default:
			return l.invalidChar(start)
		}
	}
}

// single emits a one-rune token and advances past it.
func (l *Lexer) single(t token.Type, start token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit, Span: l.span(start)}
}

// double emits a two-rune token and advances past both runes.
func (l *Lexer) double(t token.Type, lit string, start token.Position) token.Token {
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit, Span: l.span(start)}
}

// invalidChar reports an InvalidCharacter error and resynchronizes at the
// next whitespace or operator boundary.
func (l *Lexer) invalidChar(start token.Position) token.Token {
	startOffset := l.pos
	for l.ch != 0 && !unicode.IsSpace(l.ch) && !isTokenBoundary(l.ch) {
		l.readChar()
	}
	// Always consume at least one rune so the lexer makes progress.
	if l.pos == startOffset && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[startOffset:l.pos]
	tok := token.Token{Type: token.ILLEGAL, Literal: lit, Span: l.span(start)}
	l.diags.Addf(diag.SeverityError, diag.CodeInvalidCharacter, tok.Span,
		"invalid character %q", lit)
	return tok
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch != 0 && unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}
		break
	}
}

// collectLineComment collects a // comment running to end of line.
func (l *Lexer) collectLineComment() {
	start := l.currentPos()
	startOffset := l.pos
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: l.span(start),
	})
}

// collectBlockComment collects a /* ... */ comment. Block comments do not
// nest; an unterminated one consumes the rest of the formula and is reported.
func (l *Lexer) collectBlockComment() {
	start := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	terminated := false
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			terminated = true
			break
		}
		l.readChar()
	}

	span := l.span(start)
	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: span,
	})
	if !terminated {
		l.diags.Addf(diag.SeverityError, diag.CodeUnterminatedComment, span,
			"unterminated block comment")
	}
}

// readString reads a double-quoted text literal. The only escape is a
// doubled quote: "say ""hi""" -> say "hi".
func (l *Lexer) readString(start token.Position) token.Token {
	l.readChar() // skip opening quote

	var value strings.Builder
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				value.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return token.Token{Type: token.STRING, Literal: value.String(), Span: l.span(start)}
		}
		value.WriteRune(l.ch)
		l.readChar()
	}

	tok := token.Token{Type: token.ILLEGAL, Literal: value.String(), Span: l.span(start)}
	l.diags.Addf(diag.SeverityError, diag.CodeUnterminatedString, tok.Span,
		"unterminated text literal")
	return tok
}

// readQuotedIdentifier reads a single-quoted identifier, used for names
// containing whitespace or punctuation. A doubled quote is a literal quote.
// Quoted identifiers are never keywords.
func (l *Lexer) readQuotedIdentifier(start token.Position) token.Token {
	l.readChar() // skip opening quote

	var name strings.Builder
	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				name.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return token.Token{Type: token.IDENT, Literal: name.String(), Span: l.span(start)}
		}
		name.WriteRune(l.ch)
		l.readChar()
	}

	tok := token.Token{Type: token.ILLEGAL, Literal: name.String(), Span: l.span(start)}
	l.diags.Addf(diag.SeverityError, diag.CodeUnterminatedString, tok.Span,
		"unterminated quoted identifier")
	return tok
}

// readIdentifier reads an unquoted identifier with maximal munch, then
// checks for keyword spellings. Because the whole run of identifier
// characters is consumed first, glued text like "Value1AndValue2" stays a
// single identifier rather than splitting around "And".
func (l *Lexer) readIdentifier(start token.Position) token.Token {
	startOffset := l.pos
	for isIdentContinue(l.ch) {
		l.readChar()
	}
	lit := l.input[startOffset:l.pos]
	return token.Token{Type: token.LookupIdent(lit), Literal: lit, Span: l.span(start)}
}

// readNumber reads a numeric literal using the locale's decimal separator,
// with an optional exponent. The '%' postfix is a separate operator token,
// never part of the literal.
func (l *Lexer) readNumber(start token.Position) token.Token {
	startOffset := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == l.profile.Decimal && isDigit(l.peekChar()) {
		l.readChar() // skip separator
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		if next := l.peekChar(); isDigit(next) || next == '+' || next == '-' {
			l.readChar() // skip 'e'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return token.Token{Type: token.NUMBER, Literal: l.input[startOffset:l.pos], Span: l.span(start)}
}

// readDisambiguated reads a [@Ident] token. The literal is the inner name.
func (l *Lexer) readDisambiguated(start token.Position) token.Token {
	l.readChar() // skip '['
	l.readChar() // skip '@'

	var name string
	switch {
	case l.ch == '\'':
		inner := l.readQuotedIdentifier(l.currentPos())
		if inner.Type == token.ILLEGAL {
			return token.Token{Type: token.ILLEGAL, Literal: inner.Literal, Span: l.span(start)}
		}
		name = inner.Literal
	case isIdentStart(l.ch):
		startOffset := l.pos
		for isIdentContinue(l.ch) {
			l.readChar()
		}
		name = l.input[startOffset:l.pos]
	}

	if name == "" || l.ch != ']' {
		tok := token.Token{Type: token.ILLEGAL, Literal: name, Span: l.span(start)}
		l.diags.Addf(diag.SeverityError, diag.CodeInvalidCharacter, tok.Span,
			"malformed disambiguated identifier")
		return tok
	}
	l.readChar() // skip ']'
	return token.Token{Type: token.DISAMBIG, Literal: name, Span: l.span(start)}
}

// Tokenize returns all tokens from the input, including the trailing EOF.
func Tokenize(input string, profile locale.Profile) ([]token.Token, diag.List) {
	l := NewLexer(input, profile)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// isIdentStart returns true if r can start an unquoted identifier.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isIdentContinue returns true if r can continue an unquoted identifier:
// letters, digits, and the connector/combining/formatting categories.
func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Cf)
}

// isDigit returns true if r is an ASCII digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isTokenBoundary returns true for runes that can start an operator or
// separator; invalid-character recovery stops at these.
func isTokenBoundary(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '^', '%', '&', '|', '=', '<', '>', '!', '.',
		',', ';', ':', '(', ')', '{', '}', '[', ']', '"', '\'':
		return true
	}
	return isIdentStart(r) || isDigit(r)
}
