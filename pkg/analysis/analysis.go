package analysis

import (
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
	"github.com/fxtools/fxlint/pkg/parser"
	"github.com/fxtools/fxlint/pkg/token"
)

// Options configures a full analysis run.
type Options struct {
	// Profile selects the authoring locale's separators. The zero value
	// falls back to the dot-decimal profile.
	Profile locale.Profile

	// Symbols is the global symbol table. Resolution is skipped when nil.
	Symbols *SymbolTable

	// Scopes are lexical frames for the property being analyzed, outermost
	// first (e.g. the gallery row scope around an Items sub-formula).
	Scopes []*Scope

	// Capabilities holds per-field delegation descriptors. Delegation
	// analysis is skipped when nil.
	Capabilities CapabilityMap
}

// Result is the combined output of one analysis run.
type Result struct {
	Root     *parser.Chain
	Comments []*token.Comment
	Bindings map[*parser.Reference]Binding

	// Delegable records the per-node delegation verdicts, keyed by node
	// identity. Nil when no capability metadata was supplied.
	Delegable map[parser.Expr]bool

	Diags diag.List
}

// Run parses one formula and applies the configured analyses. Phases never
// abort each other: resolution runs over whatever tree the parser produced,
// and delegation runs over whatever resolution bound.
func Run(text string, opts Options) *Result {
	return RunAt(text, token.Position{Line: 1, Column: 1}, opts)
}

// RunAt is Run with source positions offset by base, for formulas embedded
// in a host document.
func RunAt(text string, base token.Position, opts Options) *Result {
	if opts.Profile.Decimal == 0 {
		opts.Profile = locale.DotDecimal
	}
	p := parser.NewParserAt(text, opts.Profile, base)
	root, parseDiags := p.Parse()

	res := &Result{Root: root, Comments: p.Comments()}
	lists := []diag.List{parseDiags}

	var resolution *Resolution
	if opts.Symbols != nil {
		resolution = NewResolver(opts.Symbols, opts.Scopes...).Resolve(root)
		res.Bindings = resolution.Bindings
		lists = append(lists, resolution.Diags)
	}

	if opts.Capabilities != nil {
		deleg := NewAnalyzer(opts.Capabilities, resolution).Analyze(root)
		res.Delegable = deleg.Delegable
		lists = append(lists, deleg.Diags)
	}

	res.Diags = diag.Merge(lists...)
	return res
}
