// Package diag defines the diagnostic model shared by all analysis phases.
//
// Phases accumulate diagnostics instead of aborting: the pipeline always
// returns an AST (possibly partial) plus the full list. Errors block in
// editors and CI; warnings are advisory unless strict mode escalates them.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fxtools/fxlint/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates an issue that blocks validation.
	SeverityError Severity = iota
	// SeverityWarning indicates an advisory issue.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarning, false
	}
}

// Code identifies a diagnostic class.
type Code string

// Diagnostic codes, grouped by phase.
const (
	// Configuration (fatal, pre-lex)
	CodeInvalidLocale Code = "CF01"

	// Lexer (recoverable, per-token resync)
	CodeUnterminatedString  Code = "LX01"
	CodeUnterminatedComment Code = "LX02"
	CodeInvalidCharacter    Code = "LX03"

	// Parser (recoverable, per-clause resync)
	CodeUnexpectedToken     Code = "PS01"
	CodeUnbalancedDelimiter Code = "PS02"
	CodeMissingOperand      Code = "PS03"
	CodeChainedComparison   Code = "PS04"

	// Reference resolution (non-fatal)
	CodeUnresolvedIdentifier Code = "RS01"

	// Delegation (non-fatal)
	CodeNonDelegablePredicate Code = "DG01"
	CodeNonDelegableCall      Code = "DG02"
	CodeNonSortableField      Code = "DG03"
)

// Source identifies where a formula came from within a document set.
// Merging across concurrent analyses orders by these fields, never by
// completion order.
type Source struct {
	Document string // file path of the YAML document
	Control  string // control name within the document
	Property string // property carrying the formula
}

// Diagnostic is one finding with a source span.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Span     token.Span
	Message  string
	Source   Source
}

// String renders the diagnostic in file:line:col form.
func (d Diagnostic) String() string {
	loc := d.Source.Document
	if p := d.Span.Start; p.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", loc, p.Line, p.Column)
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity, d.Code, d.Message)
}

// List is an append-only collection of diagnostics.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Addf appends a diagnostic with a formatted message.
func (l *List) Addf(sev Severity, code Code, span token.Span, format string, args ...any) {
	l.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors returns true if any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// WithSource returns a copy of the list with the source set on every entry.
func (l List) WithSource(src Source) List {
	out := make(List, len(l))
	for i, d := range l {
		d.Source = src
		out[i] = d
	}
	return out
}

// Sort orders the list deterministically by (document, control, property),
// then source position, then code. Stable across concurrent producers.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if a.Source.Document != b.Source.Document {
			return a.Source.Document < b.Source.Document
		}
		if a.Source.Control != b.Source.Control {
			return a.Source.Control < b.Source.Control
		}
		if a.Source.Property != b.Source.Property {
			return a.Source.Property < b.Source.Property
		}
		if a.Span.Start.Offset != b.Span.Start.Offset {
			return a.Span.Start.Offset < b.Span.Start.Offset
		}
		return a.Code < b.Code
	})
}

// Merge combines multiple lists into one deterministically ordered list.
func Merge(lists ...List) List {
	var total int
	for _, l := range lists {
		total += len(l)
	}
	merged := make(List, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	merged.Sort()
	return merged
}
