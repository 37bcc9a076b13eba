// Package cursor defines the syntax tree consumed by the matcher.
//
// Backends translate a parsed source file into a tree of Nodes. The matcher
// only sees the Cursor interface, so tests can build trees by hand.
package cursor

import (
	"fmt"
	"iter"
	"slices"
)

// Position is a location in a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Extent is the source range of a cursor. End is exclusive.
type Extent struct {
	Start Position
	End   Position
}

func (e Extent) String() string {
	return fmt.Sprintf("%s-%d:%d", e.Start, e.End.Line, e.End.Column)
}

// Contains reports whether o lies within e.
func (e Extent) Contains(o Extent) bool {
	return e.Start.Offset <= o.Start.Offset && o.End.Offset <= e.End.Offset
}

// Cursor is a node of a syntax tree.
type Cursor interface {
	Kind() Kind
	// Spelling is the name of the entity: the declared name for
	// declarations, the referenced name for references and calls.
	Spelling() string
	// Type is the spelling of the declared or referenced type.
	Type() string
	// ResultType is the return type of function-like cursors.
	ResultType() string
	Extent() Extent
	// Children yields the direct children in source order.
	Children() iter.Seq[Cursor]
	// Arguments returns the parameter declarations of a function or the
	// argument expressions of a call, in order.
	Arguments() []Cursor
}

var _ Cursor = (*Node)(nil)

// Node is the in-memory Cursor built by backends. A Node must not be
// modified once it is reachable from a TranslationUnit.
type Node struct {
	kind       Kind
	spelling   string
	typ        string
	resultType string
	extent     Extent
	children   []*Node
	arguments  []*Node
}

// NewNode creates a leaf node.
func NewNode(kind Kind, spelling string, extent Extent) *Node {
	return &Node{kind: kind, spelling: spelling, extent: extent}
}

// SetType sets the declared or referenced type spelling.
func (n *Node) SetType(typ string) *Node {
	n.typ = typ
	return n
}

// SetResultType sets the result type spelling of a function-like node.
func (n *Node) SetResultType(typ string) *Node {
	n.resultType = typ
	return n
}

// SetSpelling replaces the spelling. Backends use it when the name of an
// entity is only known after its children were translated.
func (n *Node) SetSpelling(spelling string) *Node {
	n.spelling = spelling
	return n
}

// AddChild appends children in source order.
func (n *Node) AddChild(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

// AddArgument appends a parameter or call argument. The argument also
// becomes a child of n.
func (n *Node) AddArgument(arg *Node) *Node {
	if arg == nil {
		return n
	}
	n.arguments = append(n.arguments, arg)
	n.children = append(n.children, arg)
	return n
}

func (n *Node) Kind() Kind         { return n.kind }
func (n *Node) Spelling() string   { return n.spelling }
func (n *Node) Type() string       { return n.typ }
func (n *Node) ResultType() string { return n.resultType }
func (n *Node) Extent() Extent     { return n.extent }

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th direct child.
func (n *Node) Child(i int) *Node { return n.children[i] }

func (n *Node) Children() iter.Seq[Cursor] {
	return func(yield func(Cursor) bool) {
		for _, c := range n.children {
			if !yield(c) {
				return
			}
		}
	}
}

func (n *Node) Arguments() []Cursor {
	args := make([]Cursor, len(n.arguments))
	for i, a := range n.arguments {
		args[i] = a
	}
	return args
}

// SortChildren orders children by start offset. Backends that translate
// out of source order call it before publishing the tree.
func (n *Node) SortChildren() {
	slices.SortStableFunc(n.children, func(a, b *Node) int {
		return a.extent.Start.Offset - b.extent.Start.Offset
	})
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %q", n.kind, n.spelling)
}

// Diagnostic is a problem reported by a backend while building a tree.
type Diagnostic struct {
	Extent  Extent
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Extent.Start, d.Message)
}

// TranslationUnit is a parsed source file.
type TranslationUnit struct {
	Filename    string
	Source      []byte
	Root        Cursor
	Diagnostics []Diagnostic
}

// Text returns the source text covered by e.
func (tu *TranslationUnit) Text(e Extent) string {
	start, end := e.Start.Offset, e.End.Offset
	if start < 0 || end > len(tu.Source) || start > end {
		return ""
	}
	return string(tu.Source[start:end])
}
