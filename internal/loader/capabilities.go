package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fxtools/fxlint/pkg/analysis"
)

// capabilitiesFile is the on-disk schema for connector capability metadata.
type capabilitiesFile struct {
	Fields map[string]fieldCapability `yaml:"fields"`
}

type fieldCapability struct {
	Filterable      bool     `yaml:"filterable"`
	Sortable        bool     `yaml:"sortable"`
	Selectable      bool     `yaml:"selectable"`
	FilterFunctions []string `yaml:"filter_functions"`
}

var knownOperatorTags = map[analysis.OperatorTag]bool{
	analysis.OpEq: true,
	analysis.OpNe: true,
	analysis.OpLt: true,
	analysis.OpLe: true,
	analysis.OpGt: true,
	analysis.OpGe: true,
	analysis.OpIn: true,
}

// LoadCapabilities reads connector capability metadata into a frozen map.
func LoadCapabilities(path string) (analysis.CapabilityMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capabilities: %w", err)
	}
	return ParseCapabilities(path, data)
}

// ParseCapabilities parses capability metadata YAML. Unknown filter
// operator tags are rejected so a typo never silently widens delegation.
func ParseCapabilities(path string, data []byte) (analysis.CapabilityMap, error) {
	var file capabilitiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	caps := make(analysis.CapabilityMap, len(file.Fields))
	for name, fc := range file.Fields {
		tags := make([]analysis.OperatorTag, 0, len(fc.FilterFunctions))
		for _, raw := range fc.FilterFunctions {
			tag := analysis.OperatorTag(raw)
			if !knownOperatorTags[tag] {
				return nil, fmt.Errorf("%s: field %q: unknown filter operator %q", path, name, raw)
			}
			tags = append(tags, tag)
		}
		caps[name] = analysis.NewCapability(fc.Filterable, fc.Sortable, fc.Selectable, tags...)
	}
	return caps, nil
}
