package analysis

import (
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/parser"
	"github.com/fxtools/fxlint/pkg/token"
)

// Table functions whose predicate or sort-key arguments can be pushed to
// the data source when every clause is delegable.
var delegableTableFunctions = map[string]bool{
	"Filter":        true,
	"LookUp":        true,
	"Sort":          true,
	"SortByColumns": true,
}

// Predicate-level functions a data source can evaluate server-side. Any
// call outside this set forces local evaluation of its enclosing clause.
var delegablePredicateFunctions = map[string]bool{
	"StartsWith": true,
	"EndsWith":   true,
	"IsBlank":    true,
}

// Delegation is the outcome of delegation analysis: a per-node verdict map
// keyed by node identity, plus the warnings explaining every cutoff. The
// AST is never mutated, so re-running the analysis yields identical output.
type Delegation struct {
	Delegable map[parser.Expr]bool
	Diags     diag.List
}

// Analyzer classifies table-function calls against per-field capability
// descriptors. It needs the resolution pass's bindings to tell field
// references apart from variables and controls.
type Analyzer struct {
	caps CapabilityMap
	res  *Resolution
}

// NewAnalyzer creates a delegation analyzer.
func NewAnalyzer(caps CapabilityMap, res *Resolution) *Analyzer {
	return &Analyzer{caps: caps, res: res}
}

// Analyze inspects every delegable table-function call in the tree. A call
// is delegable only when all of its predicate clauses are; one warning is
// emitted per offending clause, at the clause that caused the cutoff.
func (a *Analyzer) Analyze(root parser.Expr) *Delegation {
	d := &Delegation{Delegable: make(map[parser.Expr]bool)}
	parser.Walk(root, func(e parser.Expr) bool {
		call, ok := e.(*parser.Call)
		if !ok || !delegableTableFunctions[call.Name] {
			return true
		}
		a.analyzeCall(call, d)
		return true
	})
	return d
}

// analyzeCall classifies one table-function call. The first argument is the
// source; the remaining arguments are predicates or sort keys.
func (a *Analyzer) analyzeCall(call *parser.Call, d *Delegation) {
	if len(call.Args) < 2 {
		d.Delegable[call] = true
		return
	}

	ok := true
	switch call.Name {
	case "Sort":
		ok = a.classifySortKey(call.Args[1], d)
	case "SortByColumns":
		for _, arg := range call.Args[1:] {
			if !a.classifyColumnName(arg, d) {
				ok = false
			}
		}
	default:
		for _, arg := range call.Args[1:] {
			if !a.classifyPredicate(arg, d) {
				ok = false
			}
		}
	}
	d.Delegable[call] = ok
}

// classifyPredicate classifies one boolean clause. And/Or distribute over
// their branches; a comparison is checked against the field's capability
// descriptor; a non-allow-listed call cuts the clause off.
func (a *Analyzer) classifyPredicate(e parser.Expr, d *Delegation) bool {
	ok := a.predicate(e, d)
	d.Delegable[e] = ok
	return ok
}

func (a *Analyzer) predicate(e parser.Expr, d *Delegation) bool {
	switch n := e.(type) {
	case *parser.Paren:
		return a.classifyPredicate(n.Inner, d)

	case *parser.Unary:
		if n.Postfix {
			return a.classifyValue(n.Operand, d)
		}
		return a.classifyPredicate(n.Operand, d)

	case *parser.Binary:
		if isLogicalOp(n.Op) {
			left := a.classifyPredicate(n.Left, d)
			right := a.classifyPredicate(n.Right, d)
			return left && right
		}
		if tag, isCmp := OperatorTagFor(n.Op); isCmp {
			return a.classifyComparison(n, tag, d)
		}
		// Arithmetic or concatenation used in boolean position.
		left := a.classifyValue(n.Left, d)
		right := a.classifyValue(n.Right, d)
		return left && right

	case *parser.Call:
		return a.classifyCall(n, d)

	case *parser.Literal, *parser.Reference, *parser.Member:
		return true

	case *parser.Bad:
		// Parse recovery already reported; stay quiet and non-delegable.
		return false

	default:
		return false
	}
}

// classifyComparison checks one comparison against the capability
// descriptor of the field it touches. A comparison with no field operand
// is a constant test and delegates trivially.
func (a *Analyzer) classifyComparison(n *parser.Binary, tag OperatorTag, d *Delegation) bool {
	left := a.classifyValue(n.Left, d)
	right := a.classifyValue(n.Right, d)
	if !left || !right {
		return false
	}

	field, found := a.fieldOf(n.Left)
	if !found {
		field, found = a.fieldOf(n.Right)
	}
	if !found {
		return true
	}

	c, known := a.caps[field]
	if !known || !c.Filterable {
		d.Diags.Addf(diag.SeverityWarning, diag.CodeNonDelegablePredicate, n.Span,
			"field '%s' cannot be filtered by the data source", field)
		return false
	}
	if !c.FilterFunctions[tag] {
		d.Diags.Addf(diag.SeverityWarning, diag.CodeNonDelegablePredicate, n.Span,
			"field '%s' does not support the %s operator server-side", field, tag)
		return false
	}
	return true
}

// classifyValue classifies a scalar operand inside a predicate.
func (a *Analyzer) classifyValue(e parser.Expr, d *Delegation) bool {
	switch n := e.(type) {
	case *parser.Literal, *parser.Reference, *parser.Member:
		return true
	case *parser.Paren:
		return a.classifyValue(n.Inner, d)
	case *parser.Unary:
		return a.classifyValue(n.Operand, d)
	case *parser.Binary:
		left := a.classifyValue(n.Left, d)
		right := a.classifyValue(n.Right, d)
		return left && right
	case *parser.Call:
		return a.classifyCall(n, d)
	default:
		return false
	}
}

// classifyCall admits only allow-listed predicate functions, and only with
// delegable arguments.
func (a *Analyzer) classifyCall(n *parser.Call, d *Delegation) bool {
	if !delegablePredicateFunctions[n.Name] {
		d.Diags.Addf(diag.SeverityWarning, diag.CodeNonDelegableCall, n.Span,
			"function '%s' cannot be evaluated by the data source; this clause runs locally", n.Name)
		return false
	}
	ok := true
	for _, arg := range n.Args {
		if !a.classifyValue(arg, d) {
			ok = false
		}
	}
	return ok
}

// classifySortKey checks that a Sort key refers to a sortable field.
func (a *Analyzer) classifySortKey(e parser.Expr, d *Delegation) bool {
	field, found := a.fieldOf(e)
	if !found {
		// Computed sort keys cannot be pushed down.
		d.Diags.Addf(diag.SeverityWarning, diag.CodeNonSortableField, e.GetSpan(),
			"sort key is not a plain field reference")
		d.Delegable[e] = false
		return false
	}
	return a.checkSortable(field, e, d)
}

// classifyColumnName checks a SortByColumns column argument. Column names
// are text literals; sort-direction arguments pass through untouched.
func (a *Analyzer) classifyColumnName(e parser.Expr, d *Delegation) bool {
	lit, ok := e.(*parser.Literal)
	if !ok || lit.Kind != parser.LiteralText {
		return true
	}
	return a.checkSortable(lit.Value, e, d)
}

func (a *Analyzer) checkSortable(field string, e parser.Expr, d *Delegation) bool {
	c, known := a.caps[field]
	if !known || !c.Sortable {
		d.Diags.Addf(diag.SeverityWarning, diag.CodeNonSortableField, e.GetSpan(),
			"field '%s' cannot be sorted by the data source", field)
		d.Delegable[e] = false
		return false
	}
	d.Delegable[e] = true
	return true
}

// fieldOf extracts the data-source field name a reference denotes, if any.
// ThisRecord.Price names the Price field; a bare Price resolved in a row
// scope or as a data-source field names itself.
func (a *Analyzer) fieldOf(e parser.Expr) (string, bool) {
	for {
		paren, ok := e.(*parser.Paren)
		if !ok {
			break
		}
		e = paren.Inner
	}
	ref, ok := e.(*parser.Reference)
	if !ok {
		return "", false
	}

	if ref.BaseKind == parser.BaseContext {
		if len(ref.Chain) > 0 {
			return ref.Chain[len(ref.Chain)-1].Name, true
		}
		return "", false
	}

	if a.res != nil {
		if b, bound := a.res.Bindings[ref]; bound {
			if b.Kind == KindDataSourceField || b.FromScope {
				if len(ref.Chain) > 0 {
					return ref.Chain[len(ref.Chain)-1].Name, true
				}
				return ref.Base, true
			}
			return "", false
		}
	}

	// Without bindings, any bare identifier is assumed to be a row field.
	if len(ref.Chain) == 0 && ref.BaseKind == parser.BaseIdent {
		return ref.Base, true
	}
	return "", false
}

func isLogicalOp(t token.Type) bool {
	return t == token.AND || t == token.DAMP || t == token.OR || t == token.DPIPE
}
