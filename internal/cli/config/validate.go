package config

import (
	"fmt"

	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
)

// Validate checks a loaded configuration. A malformed locale tag is fatal:
// no separator profile can be derived, so nothing downstream can run.
func Validate(cfg *Config) error {
	if _, err := locale.Resolve(cfg.Locale); err != nil {
		return fmt.Errorf("%s: %w", diag.CodeInvalidLocale, err)
	}

	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", cfg.Concurrency)
	}

	for _, code := range cfg.Disabled {
		if _, ok := diag.Lookup(diag.Code(code)); !ok {
			return fmt.Errorf("unknown diagnostic code %q in disabled list", code)
		}
	}

	switch cfg.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown output format %q", cfg.OutputFormat)
	}

	return nil
}
