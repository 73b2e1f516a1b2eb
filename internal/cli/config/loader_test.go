package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxtools/fxlint/internal/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fxlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLocale, cfg.Locale)
	assert.Equal(t, config.DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.Empty(t, cfg.Disabled)
	assert.Empty(t, config.GetConfigFileUsed())
	assert.Same(t, cfg, config.GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	path := writeConfig(t, "locale: de-DE\nstrict: true\nconcurrency: 2\ndisabled:\n  - DG01\n")
	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "de-DE", cfg.Locale)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"DG01"}, cfg.Disabled)
	assert.Equal(t, path, config.GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	path := writeConfig(t, "locale: de-DE\n")
	t.Setenv("FXLINT_LOCALE", "fr-FR")
	t.Setenv("FXLINT_STRICT", "true")

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", cfg.Locale)
	assert.True(t, cfg.Strict)
}

func TestLoadConfig_FlagsOverrideEverything(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	path := writeConfig(t, "locale: de-DE\n")
	t.Setenv("FXLINT_LOCALE", "fr-FR")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("locale", config.DefaultLocale, "")
	flags.StringSlice("disable", nil, "")
	require.NoError(t, flags.Parse([]string{"--locale", "pt-BR", "--disable", "DG01,RS01"}))

	cfg, err := config.LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", cfg.Locale)
	// --disable maps onto the "disabled" config key.
	assert.Equal(t, []string{"DG01", "RS01"}, cfg.Disabled)
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	path := writeConfig(t, "locale: de-DE\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("locale", config.DefaultLocale, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Locale)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  config.Config{Locale: "en-US", OutputFormat: "auto"},
		},
		{
			name:    "malformed locale",
			cfg:     config.Config{Locale: "not a locale!!"},
			wantErr: "CF01",
		},
		{
			name:    "negative concurrency",
			cfg:     config.Config{Locale: "en-US", Concurrency: -1},
			wantErr: "concurrency",
		},
		{
			name:    "unknown disabled code",
			cfg:     config.Config{Locale: "en-US", Disabled: []string{"ZZ99"}},
			wantErr: "ZZ99",
		},
		{
			name:    "unknown output format",
			cfg:     config.Config{Locale: "en-US", OutputFormat: "xml"},
			wantErr: "output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.Validate(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := config.GetLogger(context.Background())
	require.NotNil(t, logger)
}
