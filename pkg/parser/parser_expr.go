package parser

import (
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/token"
)

// Expression parsing by precedence climbing.
//
// Precedence levels, loosest first. Postfix % and member access bind
// tighter than any binary operator and are handled structurally in
// parsePostfix rather than through the climb.
const (
	precNone = iota
	precOr     // || Or
	precAnd    // && And
	precIn     // in exactin        (non-associative)
	precEq     // = <>              (left-associative, as documented)
	precRel    // < <= > >=         (non-associative)
	precConcat // &
	precAdd    // + -
	precMul    // * /
	precPow    // ^                 (right-associative)
	precUnary  // prefix ! Not -
)

// opInfo describes how a token behaves as a binary operator.
type opInfo struct {
	prec       int
	rightAssoc bool
	nonAssoc   bool
}

// infixInfo returns the operator description for the current token, or a
// zero precedence if it is not a binary operator.
func infixInfo(t token.Type) opInfo {
	switch t {
	case token.DPIPE, token.OR:
		return opInfo{prec: precOr}
	case token.DAMP, token.AND:
		return opInfo{prec: precAnd}
	case token.IN, token.EXACTIN:
		return opInfo{prec: precIn, nonAssoc: true}
	case token.EQ, token.NE:
		return opInfo{prec: precEq}
	case token.LT, token.LE, token.GT, token.GE:
		return opInfo{prec: precRel, nonAssoc: true}
	case token.AMP:
		return opInfo{prec: precConcat}
	case token.PLUS, token.MINUS:
		return opInfo{prec: precAdd}
	case token.STAR, token.SLASH:
		return opInfo{prec: precMul}
	case token.CARET:
		return opInfo{prec: precPow, rightAssoc: true}
	default:
		return opInfo{}
	}
}

// parseExpression parses a full expression.
func (p *Parser) parseExpression() Expr {
	return p.parseBinary(precNone + 1)
}

// parseBinary implements precedence climbing over binary operators.
func (p *Parser) parseBinary(minPrec int) Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		info := infixInfo(p.token.Type)
		if info.prec < minPrec {
			break
		}

		op := p.token
		p.nextToken()

		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right := p.parseBinary(nextMin)
		if right == nil {
			p.diags.Addf(diag.SeverityError, diag.CodeMissingOperand, op.Span,
				"operator %s is missing its right operand", op.Type)
			right = &Bad{NodeInfo: NodeInfo{Span: op.Span}}
		}

		left = &Binary{
			NodeInfo: NodeInfo{Span: token.Span{Start: left.GetSpan().Start, End: right.GetSpan().End}},
			Op:       op.Type,
			Left:     left,
			Right:    right,
		}

		// Relational and membership operators take exactly two operands.
		// A third at the same level without parentheses is an error; keep
		// parsing left-associatively so later clauses still report.
		if info.nonAssoc {
			if next := infixInfo(p.token.Type); next.prec == info.prec {
				p.errorf(diag.CodeChainedComparison,
					"operator %s cannot be chained with %s; use parentheses", op.Type, p.token.Type)
			}
		}
	}

	return left
}

// parsePrefix parses prefix operators and delegates to parsePostfix.
// Prefix operators bind tighter than ^, so -2^3 is (-2)^3.
func (p *Parser) parsePrefix() Expr {
	switch p.token.Type {
	case token.BANG, token.NOT, token.MINUS:
		op := p.token
		p.nextToken()
		operand := p.parsePrefix()
		if operand == nil {
			p.diags.Addf(diag.SeverityError, diag.CodeMissingOperand, op.Span,
				"operator %s is missing its operand", op.Type)
			return nil
		}
		return &Unary{
			NodeInfo: NodeInfo{Span: token.Span{Start: op.Span.Start, End: operand.GetSpan().End}},
			Op:       op.Type,
			Operand:  operand,
		}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary followed by postfix % and member access.
// Member segments on a plain reference fold into the reference chain;
// on any other target they build Member nodes.
func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.token.Type {
		case token.PERCENT:
			expr = &Unary{
				NodeInfo: NodeInfo{Span: token.Span{Start: expr.GetSpan().Start, End: p.token.Span.End}},
				Op:       token.PERCENT,
				Postfix:  true,
				Operand:  expr,
			}
			p.nextToken()

		case token.DOT, token.BANG:
			// Infix ! is member access; prefix ! never reaches here because
			// a complete operand has already been parsed.
			bang := p.token.Type == token.BANG
			p.nextToken()
			if !p.check(token.IDENT) {
				p.errorf(diag.CodeUnexpectedToken, "expected member name, found %s", p.describeToken())
				return expr
			}
			name := p.token.Literal
			seg := Segment{Name: name, Bang: bang, Span: p.token.Span}
			p.nextToken()

			if ref, ok := expr.(*Reference); ok {
				ref.Chain = append(ref.Chain, seg)
				ref.Span.End = seg.Span.End
			} else {
				expr = &Member{
					NodeInfo: NodeInfo{Span: token.Span{Start: expr.GetSpan().Start, End: seg.Span.End}},
					Target:   expr,
					Name:     name,
					Bang:     bang,
				}
			}

		default:
			return expr
		}
	}
}
