package analysis

import "github.com/fxtools/fxlint/pkg/token"

// OperatorTag names a comparison operator in capability metadata. Tags are
// the stable spellings used in capability descriptor files, independent of
// lexer token types.
type OperatorTag string

// Operator tags recognized in capability descriptors.
const (
	OpEq OperatorTag = "eq"
	OpNe OperatorTag = "ne"
	OpLt OperatorTag = "lt"
	OpLe OperatorTag = "le"
	OpGt OperatorTag = "gt"
	OpGe OperatorTag = "ge"
	OpIn OperatorTag = "in"
)

// OperatorTagFor maps a comparison token to its capability tag.
func OperatorTagFor(t token.Type) (OperatorTag, bool) {
	switch t {
	case token.EQ:
		return OpEq, true
	case token.NE:
		return OpNe, true
	case token.LT:
		return OpLt, true
	case token.LE:
		return OpLe, true
	case token.GT:
		return OpGt, true
	case token.GE:
		return OpGe, true
	case token.IN, token.EXACTIN:
		return OpIn, true
	default:
		return "", false
	}
}

// Capability describes what a data source can evaluate server-side for one
// field. Descriptors come from connector metadata and are frozen before
// analysis begins.
type Capability struct {
	Filterable      bool
	Sortable        bool
	Selectable      bool
	FilterFunctions map[OperatorTag]bool
}

// SupportsFilter reports whether the field can be filtered server-side with
// the given operator.
func (c Capability) SupportsFilter(op OperatorTag) bool {
	return c.Filterable && c.FilterFunctions[op]
}

// CapabilityMap maps field names to their capability descriptors.
type CapabilityMap map[string]Capability

// NewCapability builds a descriptor with the given filter operator tags.
func NewCapability(filterable, sortable, selectable bool, ops ...OperatorTag) Capability {
	fns := make(map[OperatorTag]bool, len(ops))
	for _, op := range ops {
		fns[op] = true
	}
	return Capability{
		Filterable:      filterable,
		Sortable:        sortable,
		Selectable:      selectable,
		FilterFunctions: fns,
	}
}
