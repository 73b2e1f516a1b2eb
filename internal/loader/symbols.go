package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fxtools/fxlint/pkg/analysis"
)

// symbolsFile is the on-disk schema for the app's symbol inventory.
type symbolsFile struct {
	Controls    map[string][]string `yaml:"controls"`    // control name -> property names
	Globals     []string            `yaml:"globals"`     // variables set with Set/UpdateContext
	DataSources map[string][]string `yaml:"datasources"` // source name -> field names
	Enums       map[string][]string `yaml:"enums"`       // enum name -> member names
}

// LoadSymbols reads a symbol inventory file into a frozen table. Field and
// member names are registered unqualified: references resolve by their base
// identifier, and qualification is carried on the reference itself.
func LoadSymbols(path string) (*analysis.SymbolTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbols: %w", err)
	}
	return ParseSymbols(path, data)
}

// ParseSymbols parses symbol inventory YAML.
func ParseSymbols(path string, data []byte) (*analysis.SymbolTable, error) {
	var file symbolsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	entries := make(map[string]analysis.ReferenceKind)
	for control, props := range file.Controls {
		entries[control] = analysis.KindControl
		for _, prop := range props {
			if _, taken := entries[prop]; !taken {
				entries[prop] = analysis.KindControlProperty
			}
		}
	}
	for _, name := range file.Globals {
		entries[name] = analysis.KindGlobalVariable
	}
	for source, fields := range file.DataSources {
		entries[source] = analysis.KindDataSource
		for _, field := range fields {
			if _, taken := entries[field]; !taken {
				entries[field] = analysis.KindDataSourceField
			}
		}
	}
	for enum, members := range file.Enums {
		entries[enum] = analysis.KindEnum
		for _, member := range members {
			if _, taken := entries[member]; !taken {
				entries[member] = analysis.KindEnumMember
			}
		}
	}
	return analysis.NewSymbolTable(entries), nil
}
