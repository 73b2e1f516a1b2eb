package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fxtools/fxlint/internal/cli/output"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]string{
					"version":    version,
					"build_date": buildDate,
					"git_commit": gitCommit,
					"go_version": runtime.Version(),
					"platform":   runtime.GOOS + "/" + runtime.GOARCH,
				})
			}

			r.Printf("fxlint %s\n", version)
			r.Printf("  build date: %s\n", buildDate)
			r.Printf("  commit:     %s\n", gitCommit)
			r.Printf("  go:         %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	return cmd
}
