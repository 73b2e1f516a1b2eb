package parser

import (
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/token"
)

// parsePrimary parses literals, references, calls, records, tables, and
// parenthesized groups. Returns nil after reporting when no primary can
// start at the current token.
func (p *Parser) parsePrimary() Expr {
	tok := p.token

	switch tok.Type {
	case token.NUMBER:
		p.nextToken()
		// Numbers are stored dot-decimal regardless of the authoring
		// locale; the formatter re-applies the profile's separator.
		return &Literal{NodeInfo: NodeInfo{Span: tok.Span}, Kind: LiteralNumber, Value: p.normalizeNumber(tok.Literal)}

	case token.STRING:
		p.nextToken()
		return &Literal{NodeInfo: NodeInfo{Span: tok.Span}, Kind: LiteralText, Value: tok.Literal}

	case token.TRUE, token.FALSE:
		p.nextToken()
		return &Literal{NodeInfo: NodeInfo{Span: tok.Span}, Kind: LiteralLogical, Value: tok.Literal}

	case token.IDENT:
		return p.parseIdentExpr()

	case token.THISITEM, token.THISRECORD, token.SELF, token.PARENT:
		p.nextToken()
		return &Reference{NodeInfo: NodeInfo{Span: tok.Span}, Base: tok.Literal, BaseKind: BaseContext}

	case token.DISAMBIG:
		p.nextToken()
		return &Reference{NodeInfo: NodeInfo{Span: tok.Span}, Base: tok.Literal, BaseKind: BaseDisambiguated}

	case token.LPAREN:
		return p.parseParen()

	case token.LBRACE:
		return p.parseRecord()

	case token.LBRACKET:
		return p.parseTable()

	case token.ILLEGAL:
		// The lexer already reported; swallow the token so the parse moves on.
		p.nextToken()
		return &Bad{NodeInfo: NodeInfo{Span: tok.Span}}

	case token.EOF:
		p.errorf(diag.CodeMissingOperand, "unexpected end of formula")
		return nil

	default:
		if token.IsOperator(tok.Type) {
			p.errorf(diag.CodeMissingOperand, "operator %s is missing its left operand", tok.Type)
		} else {
			p.errorf(diag.CodeUnexpectedToken, "unexpected %s", p.describeToken())
		}
		return nil
	}
}

// parseIdentExpr parses the constructs that begin with an identifier:
// a function call, the Table[@Field] disambiguation form, or a reference.
func (p *Parser) parseIdentExpr() Expr {
	tok := p.token
	p.nextToken()

	switch {
	case p.check(token.LPAREN):
		return p.parseCall(tok)

	case p.check(token.DISAMBIG) && tok.Span.Adjacent(p.token.Span):
		// Ident immediately followed by [@Field] with no gap.
		field := p.token
		p.nextToken()
		return &Reference{
			NodeInfo:  NodeInfo{Span: token.Span{Start: tok.Span.Start, End: field.Span.End}},
			Base:      field.Literal,
			BaseKind:  BaseDisambiguated,
			Qualifier: tok.Literal,
		}

	default:
		return &Reference{NodeInfo: NodeInfo{Span: tok.Span}, Base: tok.Literal, BaseKind: BaseIdent}
	}
}

// parseCall parses a function call. The opening paren is the current token.
func (p *Parser) parseCall(name token.Token) Expr {
	p.nextToken() // consume '('

	call := &Call{Name: name.Literal}
	call.Span.Start = name.Span.Start

	if !p.check(token.RPAREN) {
		for {
			arg := p.parseExpression()
			if arg == nil {
				p.syncToCallBoundary()
				arg = &Bad{NodeInfo: NodeInfo{Span: p.token.Span}}
			}
			call.Args = append(call.Args, arg)
			if !p.match(token.LISTSEP) {
				break
			}
		}
	}

	call.Span.End = p.token.Span.End
	if !p.expect(token.RPAREN, diag.CodeUnbalancedDelimiter) {
		p.syncToChainSep()
	}
	return call
}

// parseParen parses a parenthesized group.
func (p *Parser) parseParen() Expr {
	open := p.token
	p.nextToken()

	inner := p.parseExpression()
	if inner == nil {
		inner = &Bad{NodeInfo: NodeInfo{Span: p.token.Span}}
	}

	end := p.token.Span.End
	if !p.expect(token.RPAREN, diag.CodeUnbalancedDelimiter) {
		p.syncToChainSep()
	}
	return &Paren{
		NodeInfo: NodeInfo{Span: token.Span{Start: open.Span.Start, End: end}},
		Inner:    inner,
	}
}

// parseRecord parses an inline record literal: {Name: expr, ...}.
func (p *Parser) parseRecord() Expr {
	open := p.token
	p.nextToken()

	rec := &Record{}
	rec.Span.Start = open.Span.Start

	if !p.check(token.RBRACE) {
		for {
			field, ok := p.parseRecordField()
			if !ok {
				p.syncToRecordBoundary()
			} else {
				rec.Fields = append(rec.Fields, field)
			}
			if !p.match(token.LISTSEP) {
				break
			}
		}
	}

	rec.Span.End = p.token.Span.End
	if !p.expect(token.RBRACE, diag.CodeUnbalancedDelimiter) {
		p.syncToChainSep()
	}
	return rec
}

// parseRecordField parses one Name: Value pair.
func (p *Parser) parseRecordField() (RecordField, bool) {
	if !p.check(token.IDENT) {
		p.errorf(diag.CodeUnexpectedToken, "expected field name, found %s", p.describeToken())
		return RecordField{}, false
	}
	name := p.token
	p.nextToken()

	if !p.expect(token.COLON, diag.CodeUnexpectedToken) {
		return RecordField{}, false
	}

	value := p.parseExpression()
	if value == nil {
		return RecordField{}, false
	}

	return RecordField{
		Name:  name.Literal,
		Value: value,
		Span:  token.Span{Start: name.Span.Start, End: value.GetSpan().End},
	}, true
}

// parseTable parses an inline table literal: [expr, ...].
func (p *Parser) parseTable() Expr {
	open := p.token
	p.nextToken()

	tbl := &Table{}
	tbl.Span.Start = open.Span.Start

	if !p.check(token.RBRACKET) {
		for {
			el := p.parseExpression()
			if el == nil {
				p.syncToTableBoundary()
				el = &Bad{NodeInfo: NodeInfo{Span: p.token.Span}}
			}
			tbl.Elements = append(tbl.Elements, el)
			if !p.match(token.LISTSEP) {
				break
			}
		}
	}

	tbl.Span.End = p.token.Span.End
	if !p.expect(token.RBRACKET, diag.CodeUnbalancedDelimiter) {
		p.syncToChainSep()
	}
	return tbl
}

// normalizeNumber rewrites a number lexeme to canonical dot-decimal form.
func (p *Parser) normalizeNumber(lexeme string) string {
	if p.profile.Decimal == '.' {
		return lexeme
	}
	out := []byte(lexeme)
	for i := range out {
		if out[i] == byte(p.profile.Decimal) {
			out[i] = '.'
		}
	}
	return string(out)
}

// syncToCallBoundary skips tokens until an argument or call boundary.
func (p *Parser) syncToCallBoundary() {
	for !p.check(token.LISTSEP) && !p.check(token.RPAREN) &&
		!p.check(token.CHAINSEP) && !p.check(token.EOF) {
		p.nextToken()
	}
}

// syncToRecordBoundary skips tokens until a field or record boundary.
func (p *Parser) syncToRecordBoundary() {
	for !p.check(token.LISTSEP) && !p.check(token.RBRACE) &&
		!p.check(token.CHAINSEP) && !p.check(token.EOF) {
		p.nextToken()
	}
}

// syncToTableBoundary skips tokens until an element or table boundary.
func (p *Parser) syncToTableBoundary() {
	for !p.check(token.LISTSEP) && !p.check(token.RBRACKET) &&
		!p.check(token.CHAINSEP) && !p.check(token.EOF) {
		p.nextToken()
	}
}
