package parser

import "github.com/fxtools/fxlint/pkg/token"

// Expr represents an expression node. Nodes are tree-owned and immutable
// once the parse completes; analysis phases annotate them through maps
// keyed by node identity rather than by mutating the tree.
type Expr interface {
	exprNode()
	GetSpan() token.Span
}

// NodeInfo provides the source span common to all AST nodes.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// ---------- Literals ----------

// LiteralKind distinguishes the literal types.
type LiteralKind int

// LiteralKind constants.
const (
	LiteralNumber LiteralKind = iota
	LiteralText
	LiteralLogical
)

// Literal represents a number, text, or logical literal.
// Value holds the lexeme with escapes resolved; for logical literals it is
// "true" or "false".
type Literal struct {
	NodeInfo
	Kind  LiteralKind
	Value string
}

func (*Literal) exprNode() {}

// ---------- References ----------

// BaseKind indicates how a reference's base name was written.
type BaseKind int

// BaseKind constants.
const (
	// BaseIdent is a plain identifier base, resolved through the scope stack.
	BaseIdent BaseKind = iota
	// BaseDisambiguated is [@Name] or Table[@Name], always resolved against
	// the global table regardless of local shadowing.
	BaseDisambiguated
	// BaseContext is one of the context keywords ThisItem/ThisRecord/Self/Parent.
	BaseContext
)

// Segment is one step of a reference chain: .Name or !Name.
type Segment struct {
	Name string
	Bang bool // written with ! rather than .
	Span token.Span
}

// Reference represents a base name plus zero or more member segments,
// folded left-to-right: Gallery1.Selected.Price.
type Reference struct {
	NodeInfo
	Base      string
	BaseKind  BaseKind
	Qualifier string // table name for the Table[@Field] form, else empty
	Chain     []Segment
}

func (*Reference) exprNode() {}

// Member represents member access on a non-reference target, such as
// First(Orders).Total. Pure identifier chains fold into Reference instead.
type Member struct {
	NodeInfo
	Target Expr
	Name   string
	Bang   bool
}

func (*Member) exprNode() {}

// ---------- Composite expressions ----------

// Call represents a function call. Arguments are separated by the locale's
// list separator in source.
type Call struct {
	NodeInfo
	Name string
	Args []Expr
}

func (*Call) exprNode() {}

// RecordField is one Name: Value pair in an inline record.
type RecordField struct {
	Name  string
	Value Expr
	Span  token.Span
}

// Record represents an inline record literal: {Name: "x", Qty: 2}.
type Record struct {
	NodeInfo
	Fields []RecordField
}

func (*Record) exprNode() {}

// Table represents an inline table literal: [1, 2, 3].
type Table struct {
	NodeInfo
	Elements []Expr
}

func (*Table) exprNode() {}

// Unary represents a prefix operator (!, Not, unary -) or the postfix
// percent operator.
type Unary struct {
	NodeInfo
	Op      token.Type
	Postfix bool // true only for %
	Operand Expr
}

func (*Unary) exprNode() {}

// Binary represents a binary operator expression.
type Binary struct {
	NodeInfo
	Op    token.Type
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// Paren represents a parenthesized group.
type Paren struct {
	NodeInfo
	Inner Expr
}

func (*Paren) exprNode() {}

// Chain is the root node: a sequence of expressions joined by the locale's
// chaining separator, evaluated in order.
type Chain struct {
	NodeInfo
	Exprs []Expr
}

func (*Chain) exprNode() {}

// Bad is a placeholder produced by error recovery so that analysis can
// proceed over the rest of the formula.
type Bad struct {
	NodeInfo
}

func (*Bad) exprNode() {}

// Walk traverses the tree in depth-first pre-order, calling fn for every
// node. fn returning false prunes the subtree.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Member:
		Walk(n.Target, fn)
	case *Call:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *Record:
		for _, f := range n.Fields {
			Walk(f.Value, fn)
		}
	case *Table:
		for _, el := range n.Elements {
			Walk(el, fn)
		}
	case *Unary:
		Walk(n.Operand, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Paren:
		Walk(n.Inner, fn)
	case *Chain:
		for _, ex := range n.Exprs {
			Walk(ex, fn)
		}
	}
}
