// Package loader reads app definition documents and analysis metadata.
//
// App documents are YAML trees of controls; any scalar value starting with
// '=' carries a formula. The loader extracts each formula together with its
// position in the host file, so downstream diagnostics point at the YAML
// document rather than at offsets inside an anonymous snippet.
package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fxtools/fxlint/pkg/token"
)

// FormulaSource is one formula extracted from an app document.
type FormulaSource struct {
	Document string // file path
	Control  string // dotted path of mapping keys leading to the property
	Property string // the property key carrying the formula
	Text     string // formula text, leading '=' stripped
	Base     token.Position
}

// Document is a loaded app definition file.
type Document struct {
	Path     string
	Formulas []FormulaSource
}

// LoadDocument reads and parses one app definition file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return ParseDocument(path, data)
}

// ParseDocument extracts formulas from YAML content. Formulas appear in
// document order.
func ParseDocument(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	doc := &Document{Path: path}
	if len(root.Content) > 0 {
		collectFormulas(doc, root.Content[0], nil)
	}
	return doc, nil
}

// collectFormulas walks mapping nodes, tracking the key path. keys holds
// every mapping key above the current node except the innermost one, which
// becomes the property name when a formula scalar is found.
func collectFormulas(doc *Document, n *yaml.Node, keys []string) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			collectFormulas(doc, value, append(keys, key.Value))
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			collectFormulas(doc, item, keys)
		}
	case yaml.ScalarNode:
		if !strings.HasPrefix(n.Value, "=") || len(keys) == 0 {
			return
		}
		doc.Formulas = append(doc.Formulas, FormulaSource{
			Document: doc.Path,
			Control:  strings.Join(keys[:len(keys)-1], "."),
			Property: keys[len(keys)-1],
			Text:     n.Value[1:],
			Base:     formulaBase(n),
		})
	case yaml.AliasNode:
		// Aliased formulas are analyzed at their anchor, not at each use.
	}
}

// formulaBase computes the document position of the first formula character.
// Plain and quoted scalars start on the node's own line, one column past the
// '=' marker (plus the opening quote, if any). Block scalars start on the
// following line; the exact indent is not recoverable from the node, so the
// column resets to 1.
func formulaBase(n *yaml.Node) token.Position {
	switch n.Style {
	case yaml.LiteralStyle, yaml.FoldedStyle:
		return token.Position{Line: n.Line + 1, Column: 1}
	case yaml.SingleQuotedStyle, yaml.DoubleQuotedStyle:
		return token.Position{Line: n.Line, Column: n.Column + 2}
	default:
		return token.Position{Line: n.Line, Column: n.Column + 1}
	}
}
