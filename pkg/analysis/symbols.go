// Package analysis provides static analysis over parsed formulas: scoped
// reference resolution against an externally supplied symbol table, and
// delegation classification against per-field capability metadata.
//
// All inputs are built then frozen before a run begins; the analyses never
// mutate them, so independent formulas can be processed concurrently.
package analysis

// ReferenceKind is the resolved meaning of an identifier. Context-dependent
// identifier meaning is resolved once into this tagged variant rather than
// re-dispatched at each use.
type ReferenceKind int

// ReferenceKind constants.
const (
	KindUnknown ReferenceKind = iota
	KindControl
	KindControlProperty
	KindGlobalVariable
	KindDataSource
	KindDataSourceField
	KindEnum
	KindEnumMember
	KindContextKeyword
)

// String returns the string representation of the kind.
func (k ReferenceKind) String() string {
	switch k {
	case KindControl:
		return "Control"
	case KindControlProperty:
		return "ControlProperty"
	case KindGlobalVariable:
		return "GlobalVariable"
	case KindDataSource:
		return "DataSource"
	case KindDataSourceField:
		return "DataSourceField"
	case KindEnum:
		return "Enum"
	case KindEnumMember:
		return "EnumMember"
	case KindContextKeyword:
		return "ContextKeyword"
	default:
		return "Unknown"
	}
}

// SymbolTable maps identifier text to its reference kind. Tables are frozen
// at construction and safe for concurrent readers.
type SymbolTable struct {
	entries map[string]ReferenceKind
}

// NewSymbolTable builds a frozen symbol table from the given entries.
// The input map is copied; later mutation of it does not affect the table.
func NewSymbolTable(entries map[string]ReferenceKind) *SymbolTable {
	m := make(map[string]ReferenceKind, len(entries))
	for name, kind := range entries {
		m[name] = kind
	}
	return &SymbolTable{entries: m}
}

// Lookup returns the kind bound to name.
func (t *SymbolTable) Lookup(name string) (ReferenceKind, bool) {
	if t == nil {
		return KindUnknown, false
	}
	kind, ok := t.entries[name]
	return kind, ok
}

// Len returns the number of entries.
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Scope is one lexical scope frame: the record fields a surrounding
// construct (gallery template, Filter predicate, With block) brings into
// scope. Frames are frozen at construction.
type Scope struct {
	entries map[string]ReferenceKind
}

// NewScope builds a frozen scope frame.
func NewScope(entries map[string]ReferenceKind) *Scope {
	m := make(map[string]ReferenceKind, len(entries))
	for name, kind := range entries {
		m[name] = kind
	}
	return &Scope{entries: m}
}

// Lookup returns the kind bound to name within this frame.
func (s *Scope) Lookup(name string) (ReferenceKind, bool) {
	kind, ok := s.entries[name]
	return kind, ok
}

// ScopeStack is an ordered set of scope frames, outermost first.
type ScopeStack []*Scope

// Lookup searches innermost frames first.
func (st ScopeStack) Lookup(name string) (ReferenceKind, bool) {
	for i := len(st) - 1; i >= 0; i-- {
		if kind, ok := st[i].Lookup(name); ok {
			return kind, true
		}
	}
	return KindUnknown, false
}
