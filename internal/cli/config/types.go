// Package config provides configuration management for the fxlint CLI.
//
// Precedence (highest to lowest): flags > environment variables > config
// file > defaults.
package config

// Config holds all CLI configuration options.
type Config struct {
	Locale       string   `koanf:"locale"`       // BCP-47 authoring locale tag
	Strict       bool     `koanf:"strict"`       // escalate warnings to errors
	Concurrency  int      `koanf:"concurrency"`  // max documents analyzed in parallel (0 = NumCPU)
	Disabled     []string `koanf:"disabled"`     // diagnostic codes to suppress
	Symbols      string   `koanf:"symbols"`      // path to symbol inventory YAML
	Capabilities string   `koanf:"capabilities"` // path to connector capability YAML
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`
}

// Default configuration values.
const (
	DefaultLocale = "en-US"
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
