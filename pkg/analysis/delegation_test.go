package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxtools/fxlint/pkg/analysis"
	"github.com/fxtools/fxlint/pkg/diag"
	"github.com/fxtools/fxlint/pkg/locale"
	"github.com/fxtools/fxlint/pkg/parser"
)

func testCaps() analysis.CapabilityMap {
	return analysis.CapabilityMap{
		// Status: equality only.
		"Status": analysis.NewCapability(true, false, true, analysis.OpEq, analysis.OpNe),
		// Price: full comparison support, sortable.
		"Price": analysis.NewCapability(true, true, true,
			analysis.OpEq, analysis.OpNe, analysis.OpLt, analysis.OpLe, analysis.OpGt, analysis.OpGe),
		// Notes: not filterable at all.
		"Notes": analysis.NewCapability(false, false, true),
	}
}

// analyze parses the formula and runs delegation analysis without bindings.
func analyze(t *testing.T, input string) (*parser.Chain, *analysis.Delegation) {
	t.Helper()
	root := parseClean(t, input)
	d := analysis.NewAnalyzer(testCaps(), nil).Analyze(root)
	return root, d
}

// firstCall returns the outermost call node in the tree.
func firstCall(root parser.Expr) *parser.Call {
	var call *parser.Call
	parser.Walk(root, func(e parser.Expr) bool {
		if c, ok := e.(*parser.Call); ok && call == nil {
			call = c
			return false
		}
		return true
	})
	return call
}

func TestDelegation_SupportedComparison(t *testing.T) {
	root, d := analyze(t, `Filter(Orders, Status = "Open")`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])
}

func TestDelegation_UnsupportedOperator(t *testing.T) {
	// Status supports eq/ne only; the > comparison must warn exactly once.
	root, d := analyze(t, `Filter(Orders, Status > "A")`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonDelegablePredicate, d.Diags[0].Code)
	assert.Equal(t, diag.SeverityWarning, d.Diags[0].Severity)
	assert.Contains(t, d.Diags[0].Message, "Status")
	assert.Contains(t, d.Diags[0].Message, "gt")
	assert.False(t, d.Delegable[firstCall(root)])
}

func TestDelegation_UnfilterableField(t *testing.T) {
	_, d := analyze(t, `Filter(Orders, Notes = "x")`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonDelegablePredicate, d.Diags[0].Code)
	assert.Contains(t, d.Diags[0].Message, "cannot be filtered")
}

func TestDelegation_UnknownFieldIsUnfilterable(t *testing.T) {
	_, d := analyze(t, `Filter(Orders, Mystery = 1)`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonDelegablePredicate, d.Diags[0].Code)
}

func TestDelegation_ConstantComparisonDelegates(t *testing.T) {
	root, d := analyze(t, `Filter(Orders, 1 < 2)`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])
}

func TestDelegation_LogicalBranches(t *testing.T) {
	// One bad branch poisons the call but only that branch warns.
	root, d := analyze(t, `Filter(Orders, Price > 100 && Status > "A")`)
	require.Len(t, d.Diags, 1)
	assert.Contains(t, d.Diags[0].Message, "Status")
	assert.False(t, d.Delegable[firstCall(root)])

	// Both branches clean.
	root, d = analyze(t, `Filter(Orders, Price > 100 Or Status = "Open")`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])
}

func TestDelegation_NonDelegableCall(t *testing.T) {
	root, d := analyze(t, `Filter(Orders, Lower(Status) = "open")`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonDelegableCall, d.Diags[0].Code)
	assert.Contains(t, d.Diags[0].Message, "Lower")
	assert.False(t, d.Delegable[firstCall(root)])
}

func TestDelegation_AllowListedPredicateFunctions(t *testing.T) {
	root, d := analyze(t, `Filter(Orders, StartsWith(Status, "Op") && !IsBlank(Price))`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])
}

func TestDelegation_ThisRecordNamesTheField(t *testing.T) {
	_, d := analyze(t, `Filter(Orders, ThisRecord.Status > "A")`)
	require.Len(t, d.Diags, 1)
	assert.Contains(t, d.Diags[0].Message, "Status")
}

func TestDelegation_LookUpIsChecked(t *testing.T) {
	root, d := analyze(t, `LookUp(Orders, Notes = "x")`)
	require.Len(t, d.Diags, 1)
	assert.False(t, d.Delegable[firstCall(root)])
}

func TestDelegation_Sort(t *testing.T) {
	root, d := analyze(t, `Sort(Orders, Price)`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])

	// Status is filterable but not sortable.
	_, d = analyze(t, `Sort(Orders, Status)`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonSortableField, d.Diags[0].Code)

	// Computed keys never push down.
	_, d = analyze(t, `Sort(Orders, Price * 2)`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonSortableField, d.Diags[0].Code)
	assert.Contains(t, d.Diags[0].Message, "not a plain field reference")
}

func TestDelegation_SortByColumns(t *testing.T) {
	root, d := analyze(t, `SortByColumns(Orders, "Price")`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])

	_, d = analyze(t, `SortByColumns(Orders, "Status")`)
	require.Len(t, d.Diags, 1)
	assert.Equal(t, diag.CodeNonSortableField, d.Diags[0].Code)
}

func TestDelegation_NonTableFunctionsIgnored(t *testing.T) {
	_, d := analyze(t, `CountRows(Orders) + Sum(Orders, Price)`)
	assert.Empty(t, d.Diags)
	assert.Empty(t, d.Delegable)
}

func TestDelegation_SourceOnlyCallDelegates(t *testing.T) {
	root, d := analyze(t, `Sort(Orders)`)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])
}

func TestDelegation_BindingsDistinguishVariables(t *testing.T) {
	// Limit resolves as a global variable, so the comparison has exactly one
	// field operand, Price, coming from the row scope.
	row := analysis.NewScope(map[string]analysis.ReferenceKind{
		"Price":  analysis.KindDataSourceField,
		"Status": analysis.KindDataSourceField,
	})
	root := parseClean(t, `Filter(Orders, varCounter < Price)`)
	res := analysis.NewResolver(testGlobals(), row).Resolve(root)
	require.Empty(t, res.Diags)

	d := analysis.NewAnalyzer(testCaps(), res).Analyze(root)
	assert.Empty(t, d.Diags)
	assert.True(t, d.Delegable[firstCall(root)])
}

func TestDelegation_Idempotent(t *testing.T) {
	root := parseClean(t, `Filter(Orders, Status > "A" && Lower(Notes) = "x")`)
	a := analysis.NewAnalyzer(testCaps(), nil)

	first := a.Analyze(root)
	second := a.Analyze(root)

	assert.Equal(t, first.Diags, second.Diags)
	assert.Equal(t, first.Delegable[firstCall(root)], second.Delegable[firstCall(root)])
}

func TestRun_EndToEnd(t *testing.T) {
	res := analysis.Run(`Filter(Orders, Status > "A")`, analysis.Options{
		Profile: locale.DotDecimal,
		Symbols: testGlobals(),
		Scopes: []*analysis.Scope{analysis.NewScope(map[string]analysis.ReferenceKind{
			"Status": analysis.KindDataSourceField,
		})},
		Capabilities: testCaps(),
	})

	require.NotNil(t, res.Root)
	require.NotNil(t, res.Bindings)
	require.NotNil(t, res.Delegable)
	require.Len(t, res.Diags, 1)
	assert.Equal(t, diag.CodeNonDelegablePredicate, res.Diags[0].Code)
}

func TestRun_SkipsPhasesWithoutInputs(t *testing.T) {
	res := analysis.Run("1 + 2", analysis.Options{Profile: locale.DotDecimal})
	assert.Empty(t, res.Diags)
	assert.Nil(t, res.Bindings)
	assert.Nil(t, res.Delegable)
}
