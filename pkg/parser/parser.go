// Package parser provides lexing and parsing for the formula language.
//
// # Usage
//
//	profile, _ := locale.Resolve("en-US")
//	root, diags := parser.Parse("Filter(Orders, Total > 100)", profile)
//
// The parser always returns a root Chain node, possibly containing Bad
// placeholders where recovery skipped malformed clauses, together with the
// accumulated diagnostics from both lexing and parsing.
//
// # Grammar Overview
//
//	formula    → expr (CHAINSEP expr)* [CHAINSEP]
//	expr       → precedence climb over binary operators (see parser_expr.go)
//	primary    → literal | reference | call | record | table | "(" expr ")"
//	reference  → (IDENT | DISAMBIG | context-keyword) (("." | "!") IDENT)*
package parser

import (
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
	"github.com/fxtools/fxlint/pkg/token"
)

// Parser parses a token stream into an AST.
type Parser struct {
	lexer   *Lexer
	token   token.Token // current token
	peek    token.Token // lookahead token
	profile locale.Profile
	diags   diag.List
}

// NewParser creates a parser for the given formula text and locale profile.
func NewParser(input string, profile locale.Profile) *Parser {
	return NewParserAt(input, profile, token.Position{Line: 1, Column: 1, Offset: 0})
}

// NewParserAt creates a parser whose positions are offset by the formula's
// position within its host document.
func NewParserAt(input string, profile locale.Profile, base token.Position) *Parser {
	p := &Parser{
		lexer:   NewLexerAt(input, profile, base),
		profile: profile,
	}
	// Read two tokens to initialize current and peek.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the formula and returns the root Chain plus all diagnostics.
func Parse(input string, profile locale.Profile) (*Chain, diag.List) {
	return ParseAt(input, profile, token.Position{Line: 1, Column: 1, Offset: 0})
}

// ParseAt is Parse with a document base position.
func ParseAt(input string, profile locale.Profile, base token.Position) (*Chain, diag.List) {
	p := NewParserAt(input, profile, base)
	return p.Parse()
}

// Parse parses the formula and returns the root Chain plus all diagnostics.
func (p *Parser) Parse() (*Chain, diag.List) {
	root := p.parseChain()
	return root, p.Diagnostics()
}

// Comments returns the comments collected during lexing.
func (p *Parser) Comments() []*token.Comment {
	return p.lexer.Comments
}

// Diagnostics returns lex and parse diagnostics merged in source order.
func (p *Parser) Diagnostics() diag.List {
	return diag.Merge(p.lexer.Diagnostics(), p.diags)
}

// ---------- Token helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.Type) bool {
	return p.token.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches; otherwise it reports the
// given code and returns false.
func (p *Parser) expect(t token.Type, code diag.Code) bool {
	if p.match(t) {
		return true
	}
	p.errorf(code, "expected %s, found %s", t, p.describeToken())
	return false
}

// describeToken renders the current token for error messages.
func (p *Parser) describeToken() string {
	if p.token.Type == token.EOF {
		return "end of formula"
	}
	if p.token.Literal != "" && p.token.Type != token.ILLEGAL {
		return "'" + p.token.Literal + "'"
	}
	return p.token.Type.String()
}

// errorf records a parse diagnostic at the current token.
func (p *Parser) errorf(code diag.Code, format string, args ...any) {
	p.diags.Addf(diag.SeverityError, code, p.token.Span, format, args...)
}

// ---------- Chain parsing and recovery ----------

// parseChain parses the full formula: a sequence of expressions joined by
// the chaining separator. Recovery resynchronizes at chain boundaries so
// one malformed clause does not suppress diagnostics for the rest.
func (p *Parser) parseChain() *Chain {
	chain := &Chain{}
	chain.Span.Start = p.token.Span.Start

	for !p.check(token.EOF) {
		// Tolerate empty clauses from stray separators.
		if p.match(token.CHAINSEP) {
			continue
		}

		expr := p.parseExpression()
		if expr == nil {
			expr = &Bad{NodeInfo: NodeInfo{Span: p.token.Span}}
			p.syncToChainSep()
		}
		chain.Exprs = append(chain.Exprs, expr)

		switch {
		case p.check(token.CHAINSEP):
			p.nextToken()
		case p.check(token.EOF):
			// done
		default:
			p.errorf(diag.CodeUnexpectedToken, "unexpected %s after expression", p.describeToken())
			p.syncToChainSep()
		}
	}

	chain.Span.End = p.token.Span.End
	return chain
}

// syncToChainSep skips tokens until the next chaining separator or EOF.
func (p *Parser) syncToChainSep() {
	for !p.check(token.CHAINSEP) && !p.check(token.EOF) {
		p.nextToken()
	}
}
