// Command fxlint validates formulas embedded in YAML app definitions.
package main

import (
	"os"

	"github.com/fxtools/fxlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
