package token

// CommentKind distinguishes line and block comments.
type CommentKind int

const (
	// LineComment is a // comment running to end of line.
	LineComment CommentKind = iota
	// BlockComment is a /* ... */ comment. Block comments do not nest.
	BlockComment
)

// Comment represents a source comment. Comments are discarded from the
// token stream but retained with spans for round-trip formatting.
type Comment struct {
	Kind CommentKind
	Text string
	Span Span
}
