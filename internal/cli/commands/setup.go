// Package commands implements the fxlint subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fxtools/fxlint/internal/cli/config"
	"github.com/fxtools/fxlint/internal/cli/output"
	"github.com/fxtools/fxlint/internal/loader"
	"github.com/fxtools/fxlint/pkg/analysis"
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Profile  locale.Profile
}

// NewCommandContext builds the shared command dependencies. The locale has
// already been validated during config loading, so resolution cannot fail
// here with anything but the default profile.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	profile, err := locale.Resolve(cfg.Locale)
	if err != nil {
		profile = locale.DotDecimal
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Profile:  profile,
	}
}

// getConfig returns the current configuration, falling back to environment
// variables when commands run outside the root command's pre-run hook.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Locale:       getEnvOrDefault("FXLINT_LOCALE", config.DefaultLocale),
		Symbols:      os.Getenv("FXLINT_SYMBOLS"),
		Capabilities: os.Getenv("FXLINT_CAPABILITIES"),
		Strict:       os.Getenv("FXLINT_STRICT") == "true",
		Verbose:      os.Getenv("FXLINT_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("FXLINT_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// disabledSet converts the configured code list into a lookup set.
func disabledSet(codes []string) map[diag.Code]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[diag.Code]bool, len(codes))
	for _, c := range codes {
		set[diag.Code(c)] = true
	}
	return set
}

// loadMetadata loads the optional symbol and capability files.
func loadMetadata(cfg *config.Config) (*analysis.SymbolTable, analysis.CapabilityMap, error) {
	var symbols *analysis.SymbolTable
	var caps analysis.CapabilityMap

	if cfg.Symbols != "" {
		s, err := loader.LoadSymbols(cfg.Symbols)
		if err != nil {
			return nil, nil, err
		}
		symbols = s
	}
	if cfg.Capabilities != "" {
		c, err := loader.LoadCapabilities(cfg.Capabilities)
		if err != nil {
			return nil, nil, err
		}
		caps = c
	}
	return symbols, caps, nil
}
