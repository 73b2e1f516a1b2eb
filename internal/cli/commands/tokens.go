package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxtools/fxlint/internal/cli/output"
	"github.com/fxtools/fxlint/pkg/parser"
	"github.com/fxtools/fxlint/pkg/token"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <formula>",
		Short: "Print the token stream of a formula",
		Long: `Lex a formula and print its tokens with their coarse kinds.

Useful for debugging locale-sensitive lexing: the same characters can
tokenize differently under dot-decimal and comma-decimal locales.`,
		Example: `  # Tokenize under the configured locale
  fxlint tokens "Sum(1.5, 2.5)"

  # Compare against a comma-decimal locale
  fxlint tokens --locale de-DE "Sum(1,5; 2,5)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			toks, diags := parser.Tokenize(args[0], cmdCtx.Profile)

			if r.EffectiveMode() == output.ModeJSON {
				type tokenJSON struct {
					Type    string `json:"type"`
					Kind    string `json:"kind"`
					Literal string `json:"literal,omitempty"`
					Line    int    `json:"line"`
					Column  int    `json:"column"`
				}
				out := make([]tokenJSON, 0, len(toks))
				for _, t := range toks {
					out = append(out, tokenJSON{
						Type:    t.Type.String(),
						Kind:    token.KindOf(t.Type).String(),
						Literal: t.Literal,
						Line:    t.Span.Start.Line,
						Column:  t.Span.Start.Column,
					})
				}
				if err := r.JSON(out); err != nil {
					return err
				}
			} else {
				styles := r.Styles()
				for _, t := range toks {
					loc := fmt.Sprintf("%d:%d", t.Span.Start.Line, t.Span.Start.Column)
					r.Printf("%s  %s  %s  %s\n",
						styles.Muted.Render(fmt.Sprintf("%-6s", loc)),
						styles.Bold.Render(fmt.Sprintf("%-10s", t.Type)),
						fmt.Sprintf("%-16s", token.KindOf(t.Type)),
						t.Literal,
					)
				}
			}

			if diags.HasErrors() {
				for _, d := range diags {
					r.Errorf("%s\n", d)
				}
				return fmt.Errorf("formula has lex errors")
			}
			return nil
		},
	}
	return cmd
}
