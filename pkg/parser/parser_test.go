package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
	"github.com/fxtools/fxlint/pkg/parser"
	"github.com/fxtools/fxlint/pkg/token"
)

// sexpr renders an AST as an s-expression for compact structural assertions.
func sexpr(e parser.Expr) string {
	switch n := e.(type) {
	case *parser.Literal:
		if n.Kind == parser.LiteralText {
			return fmt.Sprintf("%q", n.Value)
		}
		return n.Value
	case *parser.Reference:
		var b strings.Builder
		switch {
		case n.Qualifier != "":
			fmt.Fprintf(&b, "%s[@%s]", n.Qualifier, n.Base)
		case n.BaseKind == parser.BaseDisambiguated:
			fmt.Fprintf(&b, "[@%s]", n.Base)
		default:
			b.WriteString(n.Base)
		}
		for _, seg := range n.Chain {
			if seg.Bang {
				b.WriteByte('!')
			} else {
				b.WriteByte('.')
			}
			b.WriteString(seg.Name)
		}
		return b.String()
	case *parser.Member:
		op := "."
		if n.Bang {
			op = "!"
		}
		return fmt.Sprintf("(%s %s %s)", op, sexpr(n.Target), n.Name)
	case *parser.Call:
		parts := make([]string, 0, len(n.Args)+1)
		parts = append(parts, n.Name)
		for _, a := range n.Args {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *parser.Record:
		parts := make([]string, 0, len(n.Fields))
		for _, f := range n.Fields {
			parts = append(parts, f.Name+": "+sexpr(f.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *parser.Table:
		parts := make([]string, 0, len(n.Elements))
		for _, el := range n.Elements {
			parts = append(parts, sexpr(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *parser.Unary:
		if n.Postfix {
			return fmt.Sprintf("(%% %s)", sexpr(n.Operand))
		}
		return fmt.Sprintf("(%s %s)", n.Op, sexpr(n.Operand))
	case *parser.Binary:
		return fmt.Sprintf("(%s %s %s)", n.Op, sexpr(n.Left), sexpr(n.Right))
	case *parser.Paren:
		return fmt.Sprintf("(paren %s)", sexpr(n.Inner))
	case *parser.Chain:
		parts := make([]string, 0, len(n.Exprs))
		for _, ex := range n.Exprs {
			parts = append(parts, sexpr(ex))
		}
		return strings.Join(parts, "; ")
	case *parser.Bad:
		return "<bad>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

// parseOne parses a formula expected to contain a single clean expression.
func parseOne(t *testing.T, input string, profile locale.Profile) parser.Expr {
	t.Helper()
	root, diags := parser.Parse(input, profile)
	require.Empty(t, diags, "unexpected diagnostics for %q", input)
	require.Len(t, root.Exprs, 1)
	return root.Exprs[0]
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"(2 + 3) * 4", "(* (paren (+ 2 3)) 4)"},
		{"1 + 2 & \"x\"", "(& (+ 1 2) \"x\")"},
		{"a = b && c", "(&& (= a b) c)"},
		{"a < b = true", "(= (< a b) true)"},
		{"x in Choices Or y", "(Or (in x Choices) y)"},
		{"Not a Or b", "(Or (Not a) b)"},
		{"!a && b", "(&& (! a) b)"},
		{"a And b Or c And d", "(Or (And a b) (And c d))"},
		{"1 + 2 - 3", "(- (+ 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseOne(t, tt.input, locale.DotDecimal)
			assert.Equal(t, tt.want, sexpr(got))
		})
	}
}

func TestParse_PowerIsRightAssociative(t *testing.T) {
	got := parseOne(t, "2 ^ 3 ^ 2", locale.DotDecimal)
	assert.Equal(t, "(^ 2 (^ 3 2))", sexpr(got))
}

func TestParse_UnaryMinusBindsTighterThanPower(t *testing.T) {
	got := parseOne(t, "-2 ^ 2", locale.DotDecimal)
	assert.Equal(t, "(^ (- 2) 2)", sexpr(got))
}

func TestParse_PostfixPercent(t *testing.T) {
	got := parseOne(t, "50% * Total", locale.DotDecimal)
	assert.Equal(t, "(* (% 50) Total)", sexpr(got))
}

func TestParse_ChainedComparisonIsRejected(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"1 < 2 < 3"},
		{"a >= b > c"},
		{"x in ys in zs"},
		{"a exactin b in c"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, diags := parser.Parse(tt.input, locale.DotDecimal)
			require.Len(t, root.Exprs, 1)
			require.NotEmpty(t, diags)
			assert.Equal(t, diag.CodeChainedComparison, diags[0].Code)
		})
	}

	// Parenthesized forms are fine.
	got := parseOne(t, "(1 < 2) = (2 < 3)", locale.DotDecimal)
	assert.Equal(t, "(= (paren (< 1 2)) (paren (< 2 3)))", sexpr(got))
}

func TestParse_EqualityChainsQuietly(t *testing.T) {
	// = is documented left-associative; no diagnostic.
	got := parseOne(t, "a = b = c", locale.DotDecimal)
	assert.Equal(t, "(= (= a b) c)", sexpr(got))
}

func TestParse_ReferenceFolding(t *testing.T) {
	got := parseOne(t, "Gallery1.Selected.Price", locale.DotDecimal)
	ref, ok := got.(*parser.Reference)
	require.True(t, ok)
	assert.Equal(t, "Gallery1", ref.Base)
	assert.Equal(t, parser.BaseIdent, ref.BaseKind)
	require.Len(t, ref.Chain, 2)
	assert.Equal(t, "Selected", ref.Chain[0].Name)
	assert.Equal(t, "Price", ref.Chain[1].Name)
	assert.False(t, ref.Chain[1].Bang)
}

func TestParse_BangMemberAccess(t *testing.T) {
	got := parseOne(t, "Orders!Total", locale.DotDecimal)
	ref, ok := got.(*parser.Reference)
	require.True(t, ok)
	require.Len(t, ref.Chain, 1)
	assert.True(t, ref.Chain[0].Bang)
}

func TestParse_MemberOnCallResult(t *testing.T) {
	got := parseOne(t, "First(Orders).Total", locale.DotDecimal)
	assert.Equal(t, "(. (First Orders) Total)", sexpr(got))
}

func TestParse_ContextKeywords(t *testing.T) {
	got := parseOne(t, "ThisItem.Price", locale.DotDecimal)
	ref, ok := got.(*parser.Reference)
	require.True(t, ok)
	assert.Equal(t, parser.BaseContext, ref.BaseKind)
	assert.Equal(t, "ThisItem", ref.Base)
	require.Len(t, ref.Chain, 1)
}

func TestParse_DisambiguatedReference(t *testing.T) {
	got := parseOne(t, "[@Orders]", locale.DotDecimal)
	ref, ok := got.(*parser.Reference)
	require.True(t, ok)
	assert.Equal(t, parser.BaseDisambiguated, ref.BaseKind)
	assert.Equal(t, "Orders", ref.Base)
	assert.Empty(t, ref.Qualifier)
}

func TestParse_QualifiedDisambiguation(t *testing.T) {
	got := parseOne(t, "Accounts[@Name]", locale.DotDecimal)
	ref, ok := got.(*parser.Reference)
	require.True(t, ok)
	assert.Equal(t, parser.BaseDisambiguated, ref.BaseKind)
	assert.Equal(t, "Name", ref.Base)
	assert.Equal(t, "Accounts", ref.Qualifier)

	// A gap between the identifier and [@...] breaks the form apart.
	root, diags := parser.Parse("Accounts [@Name]", locale.DotDecimal)
	require.NotEmpty(t, diags)
	require.NotEmpty(t, root.Exprs)
}

func TestParse_RecordLiteral(t *testing.T) {
	got := parseOne(t, `{Name: "Widget", Qty: 2 + 1}`, locale.DotDecimal)
	assert.Equal(t, `{Name: "Widget", Qty: (+ 2 1)}`, sexpr(got))
}

func TestParse_TableLiteral(t *testing.T) {
	got := parseOne(t, "[1, 2, 3]", locale.DotDecimal)
	assert.Equal(t, "[1, 2, 3]", sexpr(got))
}

func TestParse_ChainOfStatements(t *testing.T) {
	root, diags := parser.Parse("Set(x, 1); Back()", locale.DotDecimal)
	require.Empty(t, diags)
	assert.Equal(t, "(Set x 1); (Back)", sexpr(root))

	// Trailing separator is tolerated.
	root, diags = parser.Parse("Back();", locale.DotDecimal)
	require.Empty(t, diags)
	require.Len(t, root.Exprs, 1)
}

func TestParse_CommaLocale(t *testing.T) {
	root, diags := parser.Parse("Sum(1,5; 2,5);; Reset()", locale.CommaDecimal)
	require.Empty(t, diags)
	require.Len(t, root.Exprs, 2)

	call, ok := root.Exprs[0].(*parser.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)

	// AST numbers are canonical dot-decimal regardless of authoring locale.
	lit, ok := call.Args[0].(*parser.Literal)
	require.True(t, ok)
	assert.Equal(t, "1.5", lit.Value)
	assert.Equal(t, "(Sum 1.5 2.5); (Reset)", sexpr(root))
}

func TestParse_UnbalancedDelimiter(t *testing.T) {
	_, diags := parser.Parse("Sum(1, 2", locale.DotDecimal)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.CodeUnbalancedDelimiter, diags[len(diags)-1].Code)
}

func TestParse_MissingOperand(t *testing.T) {
	root, diags := parser.Parse("1 +", locale.DotDecimal)
	require.Len(t, root.Exprs, 1)
	require.NotEmpty(t, diags)
	assert.Equal(t, "(+ 1 <bad>)", sexpr(root.Exprs[0]))

	hasMissing := false
	for _, d := range diags {
		if d.Code == diag.CodeMissingOperand {
			hasMissing = true
		}
	}
	assert.True(t, hasMissing)
}

func TestParse_RecoveryAcrossChain(t *testing.T) {
	// The malformed first clause must not hide the second clause's error.
	root, diags := parser.Parse("Sum(1, ); Lower(2", locale.DotDecimal)
	require.Len(t, root.Exprs, 2)

	var codes []diag.Code
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, diag.CodeUnbalancedDelimiter)
	require.GreaterOrEqual(t, len(diags), 2)
}

func TestParse_IllegalTokenBecomesBadNode(t *testing.T) {
	root, diags := parser.Parse("### ; 2", locale.DotDecimal)
	require.Len(t, root.Exprs, 2)
	assert.IsType(t, &parser.Bad{}, root.Exprs[0])
	assert.Equal(t, "2", sexpr(root.Exprs[1]))
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.CodeInvalidCharacter, diags[0].Code)
}

func TestParse_EmptyFormula(t *testing.T) {
	root, diags := parser.Parse("", locale.DotDecimal)
	require.Empty(t, diags)
	assert.Empty(t, root.Exprs)
}

func TestParse_SpansCoverSource(t *testing.T) {
	input := "1 + 2"
	root, diags := parser.Parse(input, locale.DotDecimal)
	require.Empty(t, diags)
	require.Len(t, root.Exprs, 1)

	bin := root.Exprs[0].(*parser.Binary)
	assert.Equal(t, 0, bin.Span.Start.Offset)
	assert.Equal(t, len(input), bin.Span.End.Offset)
}

func TestParseAt_OffsetsDiagnostics(t *testing.T) {
	base := token.Position{Line: 12, Column: 9, Offset: 300}
	_, diags := parser.ParseAt(`"open`, locale.DotDecimal, base)
	require.NotEmpty(t, diags)
	assert.Equal(t, 12, diags[0].Span.Start.Line)
	assert.Equal(t, 9, diags[0].Span.Start.Column)
}

func TestParser_CollectsComments(t *testing.T) {
	p := parser.NewParser("1 /* doc */ + 2", locale.DotDecimal)
	root, diags := p.Parse()
	require.Empty(t, diags)
	require.Len(t, root.Exprs, 1)
	require.Len(t, p.Comments(), 1)
	assert.Equal(t, "/* doc */", p.Comments()[0].Text)
}

func TestWalk_PrunesSubtrees(t *testing.T) {
	root, diags := parser.Parse("Filter(Orders, Total > 100)", locale.DotDecimal)
	require.Empty(t, diags)

	var visited int
	parser.Walk(root, func(e parser.Expr) bool {
		visited++
		_, isCall := e.(*parser.Call)
		return !isCall
	})
	// Chain and Call only; the call's arguments are pruned.
	assert.Equal(t, 2, visited)
}
