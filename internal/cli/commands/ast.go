package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxtools/fxlint/pkg/parser"
	"github.com/fxtools/fxlint/pkg/token"
)

// NewASTCommand creates the ast command.
func NewASTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast <formula>",
		Short: "Print the syntax tree of a formula",
		Long: `Parse a formula and print its syntax tree as JSON.

The formula is parsed under the configured authoring locale. Parse errors
are reported alongside whatever partial tree recovery produced.`,
		Example: `  # Dump a formula's tree
  fxlint ast "Filter(Orders, Total > 100)"

  # Parse under a comma-decimal locale
  fxlint ast --locale de-DE "Sum(1,5; 2,5)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			root, diags := parser.Parse(args[0], cmdCtx.Profile)
			out := map[string]any{
				"root": exprJSON(root),
			}
			if len(diags) > 0 {
				issues := make([]map[string]any, 0, len(diags))
				for _, d := range diags {
					issues = append(issues, map[string]any{
						"severity": d.Severity.String(),
						"code":     string(d.Code),
						"line":     d.Span.Start.Line,
						"column":   d.Span.Start.Column,
						"message":  d.Message,
					})
				}
				out["diagnostics"] = issues
			}
			if err := r.JSON(out); err != nil {
				return err
			}
			if diags.HasErrors() {
				return fmt.Errorf("formula has syntax errors")
			}
			return nil
		},
	}
	return cmd
}

// exprJSON converts a node to a JSON-friendly map. Every node carries its
// kind and span; the rest varies by node type.
func exprJSON(e parser.Expr) any {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *parser.Literal:
		return node(n.GetSpan(), map[string]any{
			"kind":    "literal",
			"literal": literalKind(n.Kind),
			"value":   n.Value,
		})
	case *parser.Reference:
		m := map[string]any{
			"kind": "reference",
			"base": n.Base,
		}
		switch n.BaseKind {
		case parser.BaseDisambiguated:
			m["disambiguated"] = true
			if n.Qualifier != "" {
				m["qualifier"] = n.Qualifier
			}
		case parser.BaseContext:
			m["context"] = true
		}
		if len(n.Chain) > 0 {
			segs := make([]map[string]any, 0, len(n.Chain))
			for _, s := range n.Chain {
				segs = append(segs, map[string]any{"name": s.Name, "bang": s.Bang})
			}
			m["chain"] = segs
		}
		return node(n.GetSpan(), m)
	case *parser.Member:
		return node(n.GetSpan(), map[string]any{
			"kind":   "member",
			"target": exprJSON(n.Target),
			"name":   n.Name,
			"bang":   n.Bang,
		})
	case *parser.Call:
		args := make([]any, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, exprJSON(a))
		}
		return node(n.GetSpan(), map[string]any{
			"kind": "call",
			"name": n.Name,
			"args": args,
		})
	case *parser.Record:
		fields := make([]map[string]any, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, map[string]any{
				"name":  f.Name,
				"value": exprJSON(f.Value),
			})
		}
		return node(n.GetSpan(), map[string]any{"kind": "record", "fields": fields})
	case *parser.Table:
		els := make([]any, 0, len(n.Elements))
		for _, el := range n.Elements {
			els = append(els, exprJSON(el))
		}
		return node(n.GetSpan(), map[string]any{"kind": "table", "elements": els})
	case *parser.Unary:
		return node(n.GetSpan(), map[string]any{
			"kind":    "unary",
			"op":      n.Op.String(),
			"postfix": n.Postfix,
			"operand": exprJSON(n.Operand),
		})
	case *parser.Binary:
		return node(n.GetSpan(), map[string]any{
			"kind":  "binary",
			"op":    n.Op.String(),
			"left":  exprJSON(n.Left),
			"right": exprJSON(n.Right),
		})
	case *parser.Paren:
		return node(n.GetSpan(), map[string]any{"kind": "paren", "inner": exprJSON(n.Inner)})
	case *parser.Chain:
		exprs := make([]any, 0, len(n.Exprs))
		for _, ex := range n.Exprs {
			exprs = append(exprs, exprJSON(ex))
		}
		return node(n.GetSpan(), map[string]any{"kind": "chain", "exprs": exprs})
	case *parser.Bad:
		return node(n.GetSpan(), map[string]any{"kind": "bad"})
	default:
		return nil
	}
}

func node(span token.Span, m map[string]any) map[string]any {
	m["span"] = map[string]any{
		"start": map[string]int{"line": span.Start.Line, "column": span.Start.Column},
		"end":   map[string]int{"line": span.End.Line, "column": span.End.Column},
	}
	return m
}

func literalKind(k parser.LiteralKind) string {
	switch k {
	case parser.LiteralNumber:
		return "number"
	case parser.LiteralText:
		return "text"
	case parser.LiteralLogical:
		return "logical"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}
