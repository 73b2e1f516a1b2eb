// Package format prints ASTs back to formula text.
//
// Printing is structure-faithful: parenthesization is preserved through
// Paren nodes, so formatting a well-formed formula and reparsing it yields
// a structurally equal tree (comments and insignificant whitespace are
// discarded). The printer applies the target locale's separators, so a
// formula can be re-emitted for a different authoring locale.
package format

import (
	"strings"
	"unicode"

	"github.com/fxtools/fxlint/pkg/locale"
	"github.com/fxtools/fxlint/pkg/parser"
	"github.com/fxtools/fxlint/pkg/token"
)

// Formula renders an expression tree as formula text in the given locale.
func Formula(e parser.Expr, profile locale.Profile) string {
	p := &printer{profile: profile}
	p.expr(e)
	return p.sb.String()
}

type printer struct {
	profile locale.Profile
	sb      strings.Builder
}

func (p *printer) expr(e parser.Expr) {
	switch n := e.(type) {
	case *parser.Literal:
		p.literal(n)
	case *parser.Reference:
		p.reference(n)
	case *parser.Member:
		p.expr(n.Target)
		if n.Bang {
			p.sb.WriteByte('!')
		} else {
			p.sb.WriteByte('.')
		}
		p.ident(n.Name)
	case *parser.Call:
		p.ident(n.Name)
		p.sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				p.listSep()
			}
			p.expr(a)
		}
		p.sb.WriteByte(')')
	case *parser.Record:
		p.sb.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				p.listSep()
			}
			p.ident(f.Name)
			p.sb.WriteString(": ")
			p.expr(f.Value)
		}
		p.sb.WriteByte('}')
	case *parser.Table:
		p.sb.WriteByte('[')
		for i, el := range n.Elements {
			if i > 0 {
				p.listSep()
			}
			p.expr(el)
		}
		p.sb.WriteByte(']')
	case *parser.Unary:
		p.unary(n)
	case *parser.Binary:
		p.expr(n.Left)
		p.sb.WriteByte(' ')
		p.sb.WriteString(n.Op.String())
		p.sb.WriteByte(' ')
		p.expr(n.Right)
	case *parser.Paren:
		p.sb.WriteByte('(')
		p.expr(n.Inner)
		p.sb.WriteByte(')')
	case *parser.Chain:
		for i, ex := range n.Exprs {
			if i > 0 {
				p.sb.WriteString(p.profile.Chain)
				p.sb.WriteByte(' ')
			}
			p.expr(ex)
		}
	case *parser.Bad:
		// Nothing sensible to print for a recovery placeholder.
	}
}

func (p *printer) literal(n *parser.Literal) {
	switch n.Kind {
	case parser.LiteralNumber:
		// Stored dot-decimal; re-apply the locale's separator.
		if p.profile.Decimal != '.' {
			p.sb.WriteString(strings.ReplaceAll(n.Value, ".", string(p.profile.Decimal)))
			return
		}
		p.sb.WriteString(n.Value)
	case parser.LiteralText:
		p.sb.WriteByte('"')
		p.sb.WriteString(strings.ReplaceAll(n.Value, `"`, `""`))
		p.sb.WriteByte('"')
	case parser.LiteralLogical:
		p.sb.WriteString(n.Value)
	}
}

func (p *printer) reference(n *parser.Reference) {
	switch n.BaseKind {
	case parser.BaseDisambiguated:
		if n.Qualifier != "" {
			p.ident(n.Qualifier)
		}
		p.sb.WriteString("[@")
		p.ident(n.Base)
		p.sb.WriteByte(']')
	case parser.BaseContext:
		p.sb.WriteString(n.Base)
	default:
		p.ident(n.Base)
	}
	for _, seg := range n.Chain {
		if seg.Bang {
			p.sb.WriteByte('!')
		} else {
			p.sb.WriteByte('.')
		}
		p.ident(seg.Name)
	}
}

func (p *printer) unary(n *parser.Unary) {
	if n.Postfix {
		p.expr(n.Operand)
		p.sb.WriteByte('%')
		return
	}
	switch n.Op {
	case token.NOT:
		p.sb.WriteString("Not ")
	default:
		p.sb.WriteString(n.Op.String())
	}
	p.expr(n.Operand)
}

func (p *printer) listSep() {
	p.sb.WriteRune(p.profile.List)
	p.sb.WriteByte(' ')
}

func (p *printer) ident(name string) {
	if needsQuoting(name) {
		p.sb.WriteByte('\'')
		p.sb.WriteString(strings.ReplaceAll(name, "'", "''"))
		p.sb.WriteByte('\'')
		return
	}
	p.sb.WriteString(name)
}

// needsQuoting reports whether an identifier must use the single-quoted
// form: empty names, names that collide with keyword spellings, and names
// containing characters outside the unquoted identifier alphabet.
func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	if token.LookupIdent(name) != token.IDENT {
		return true
	}
	for i, r := range name {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return true
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			!unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Cf) {
			return true
		}
	}
	return false
}
