package analysis

import (
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/parser"
)

// Binding is the resolution result for one reference node.
type Binding struct {
	Kind      ReferenceKind
	FromScope bool // resolved in a lexical scope frame rather than the global table
}

// Resolution holds per-node bindings keyed by node identity, plus the
// warnings produced while resolving. The AST itself is never mutated.
type Resolution struct {
	Bindings map[*parser.Reference]Binding
	Diags    diag.List
}

// Resolver binds reference nodes against a frozen symbol table and an
// externally supplied lexical scope stack.
type Resolver struct {
	globals *SymbolTable
	scopes  ScopeStack
}

// NewResolver creates a resolver. scopes are ordered outermost first.
func NewResolver(globals *SymbolTable, scopes ...*Scope) *Resolver {
	return &Resolver{globals: globals, scopes: scopes}
}

// Resolve walks the tree and binds every Reference node. An identifier
// absent from every table yields an UnresolvedIdentifier warning, never an
// abort: editors and CI want the full picture in one pass.
func (r *Resolver) Resolve(root parser.Expr) *Resolution {
	res := &Resolution{Bindings: make(map[*parser.Reference]Binding)}
	parser.Walk(root, func(e parser.Expr) bool {
		ref, ok := e.(*parser.Reference)
		if !ok {
			return true
		}
		res.Bindings[ref] = r.bind(ref, &res.Diags)
		return true
	})
	return res
}

// bind resolves a single reference node.
func (r *Resolver) bind(ref *parser.Reference, diags *diag.List) Binding {
	switch ref.BaseKind {
	case parser.BaseContext:
		return Binding{Kind: KindContextKeyword}

	case parser.BaseDisambiguated:
		// Disambiguation always targets the designated outer/global table,
		// bypassing every scope frame regardless of local shadowing.
		if kind, ok := r.globals.Lookup(ref.Base); ok {
			return Binding{Kind: kind}
		}
		diags.Addf(diag.SeverityWarning, diag.CodeUnresolvedIdentifier, ref.Span,
			"'%s' does not resolve in the global scope", ref.Base)
		return Binding{Kind: KindUnknown}

	default:
		if kind, ok := r.scopes.Lookup(ref.Base); ok {
			return Binding{Kind: kind, FromScope: true}
		}
		if kind, ok := r.globals.Lookup(ref.Base); ok {
			return Binding{Kind: kind}
		}
		diags.Addf(diag.SeverityWarning, diag.CodeUnresolvedIdentifier, ref.Span,
			"unknown identifier '%s'", ref.Base)
		return Binding{Kind: KindUnknown}
	}
}
