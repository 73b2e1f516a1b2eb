package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fxtools/fxlint/internal/cli/output"
	"github.com/fxtools/fxlint/pkg/diag"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [code]",
		Short: "List diagnostic codes",
		Long: `List every diagnostic code fxlint can report, grouped by phase.

Pass a code to show its description alone. Codes can be suppressed with
--disable or the "disabled" config key.`,
		Example: `  # List all codes
  fxlint rules

  # Show one code
  fxlint rules DG01

  # Output as JSON
  fxlint rules -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			if len(args) == 1 {
				return showCode(r, args[0])
			}
			return listCodes(r)
		},
	}
	return cmd
}

func showCode(r *output.Renderer, code string) error {
	info, ok := diag.Lookup(diag.Code(code))
	if !ok {
		return fmt.Errorf("diagnostic code %q not found", code)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(codeJSON(info))
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render(string(info.Code)))
	r.Printf("  %s: %s\n", styles.Bold.Render("Phase"), info.Phase)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), info.Severity)
	r.Println("")
	r.Println("  " + info.Description)
	r.Println("")
	return nil
}

func listCodes(r *output.Renderer) error {
	infos := diag.AllCodes()

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]map[string]string, 0, len(infos))
		for _, info := range infos {
			out = append(out, codeJSON(info))
		}
		return r.JSON(out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"Code", "Phase", "Severity", "Description"})
	for _, info := range infos {
		t.AppendRow(table.Row{info.Code, info.Phase, info.Severity, info.Description})
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}

func codeJSON(info diag.CodeInfo) map[string]string {
	return map[string]string{
		"code":        string(info.Code),
		"phase":       info.Phase,
		"severity":    info.Severity.String(),
		"description": info.Description,
	}
}
