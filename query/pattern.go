package query

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern is a node of the pattern tree. The set of implementations is
// closed: *Function, *Variable, *Class and *Search.
type Pattern interface {
	fmt.Stringer
	// Scope returns where candidate nodes are searched for.
	Scope() Qualifiers
	// Nested returns the sub-patterns that must each match somewhere
	// inside a candidate.
	Nested() []Pattern
	base() *Base
}

// Param is an element of a function parameter list: a *Variable or an
// Ellipsis.
type Param interface {
	fmt.Stringer
	isParam()
}

var (
	_ Pattern = (*Function)(nil)
	_ Pattern = (*Variable)(nil)
	_ Pattern = (*Class)(nil)
	_ Pattern = (*Search)(nil)

	_ Param = (*Variable)(nil)
	_ Param = Ellipsis{}
)

// Qualifiers describe where a pattern looks for candidates.
//
// The zero value searches every node at any depth. TopLevel restricts the
// search to the direct children of the root. A non-empty chain descends
// through scopes (classes, structs, namespaces) whose names match each
// qualifier in turn, outermost first.
type Qualifiers struct {
	chain    []*Regex
	topLevel bool
}

// Anywhere returns the qualifiers that search every node of the tree.
func Anywhere() Qualifiers { return Qualifiers{} }

// TopLevel returns the qualifiers that only consider top-level nodes.
func TopLevel() Qualifiers { return Qualifiers{topLevel: true} }

// Chain returns qualifiers for the given scope names, outermost first.
// An empty chain is equivalent to Anywhere.
func Chain(names ...*Regex) Qualifiers {
	return Qualifiers{chain: slices.Clone(names)}
}

// Prepend returns a copy of q with r added as the new outermost qualifier.
func (q Qualifiers) Prepend(r *Regex) Qualifiers {
	chain := make([]*Regex, 0, len(q.chain)+1)
	chain = append(chain, r)
	return Qualifiers{chain: append(chain, q.chain...)}
}

func (q Qualifiers) IsTopLevel() bool { return q.topLevel }
func (q Qualifiers) IsAnywhere() bool { return !q.topLevel && len(q.chain) == 0 }
func (q Qualifiers) Len() int         { return len(q.chain) }

// At returns the i-th qualifier, outermost first.
func (q Qualifiers) At(i int) *Regex { return q.chain[i] }

// Names returns a copy of the chain.
func (q Qualifiers) Names() []*Regex { return slices.Clone(q.chain) }

func (q Qualifiers) String() string {
	switch {
	case q.topLevel:
		return "<top-level>"
	case len(q.chain) == 0:
		return "<anywhere>"
	}
	parts := make([]string, len(q.chain))
	for i, r := range q.chain {
		parts[i] = r.String()
	}
	return strings.Join(parts, "::")
}

// Base holds the fields shared by every pattern variant.
type Base struct {
	qualifiers Qualifiers
	contents   []Pattern
}

func (b *Base) Scope() Qualifiers { return b.qualifiers }
func (b *Base) Nested() []Pattern { return slices.Clone(b.contents) }
func (b *Base) base() *Base       { return b }

func (b *Base) describe(sb *strings.Builder) {
	fmt.Fprintf(sb, ", qualifiers=%s", b.qualifiers)
	if len(b.contents) > 0 {
		sb.WriteString(", contents=[")
		for i, c := range b.contents {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.String())
		}
		sb.WriteString("]")
	}
}

// Option configures the shared fields of a pattern at construction.
type Option func(*Base)

// WithQualifiers sets the scope of the pattern.
func WithQualifiers(q Qualifiers) Option {
	return func(b *Base) { b.qualifiers = Qualifiers{chain: slices.Clone(q.chain), topLevel: q.topLevel} }
}

// WithContents requires each of the given patterns to match inside every
// candidate.
func WithContents(contents ...Pattern) Option {
	return func(b *Base) { b.contents = append(b.contents, contents...) }
}

func newBase(opts []Option) Base {
	var b Base
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Function matches function and method declarations and calls.
type Function struct {
	Base
	Name       *Regex
	ReturnType *Regex
	Params     []Param
}

// NewFunction builds a function pattern. Empty expressions default to ".*".
func NewFunction(name, returnType string, params []Param, opts ...Option) (*Function, error) {
	n, err := CompileRegex(name)
	if err != nil {
		return nil, fmt.Errorf("function name: %w", err)
	}
	rt, err := CompileRegex(returnType)
	if err != nil {
		return nil, fmt.Errorf("function return type: %w", err)
	}
	return &Function{
		Base:       newBase(opts),
		Name:       n,
		ReturnType: rt,
		Params:     slices.Clone(params),
	}, nil
}

func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Function(name=%s, return_type=%s, params=[", f.Name, f.ReturnType)
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString("]")
	f.describe(&sb)
	sb.WriteString(")")
	return sb.String()
}

// Variable matches variable declarations and references. Inside a
// parameter list it matches a single parameter.
type Variable struct {
	Base
	Name *Regex
	Type *Regex
}

// NewVariable builds a variable pattern. Empty expressions default to ".*".
func NewVariable(name, typ string, opts ...Option) (*Variable, error) {
	n, err := CompileRegex(name)
	if err != nil {
		return nil, fmt.Errorf("variable name: %w", err)
	}
	t, err := CompileRegex(typ)
	if err != nil {
		return nil, fmt.Errorf("variable type: %w", err)
	}
	return &Variable{Base: newBase(opts), Name: n, Type: t}, nil
}

func (v *Variable) isParam() {}

func (v *Variable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Variable(name=%s, type=%s", v.Name, v.Type)
	v.describe(&sb)
	sb.WriteString(")")
	return sb.String()
}

// Class matches class, struct and class template declarations.
type Class struct {
	Base
	Name *Regex
}

// NewClass builds a class pattern. An empty name defaults to ".*".
func NewClass(name string, opts ...Option) (*Class, error) {
	n, err := CompileRegex(name)
	if err != nil {
		return nil, fmt.Errorf("class name: %w", err)
	}
	return &Class{Base: newBase(opts), Name: n}, nil
}

func (c *Class) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Class(name=%s", c.Name)
	c.describe(&sb)
	sb.WriteString(")")
	return sb.String()
}

// Search matches any node whose spelling matches, regardless of kind.
type Search struct {
	Base
	Search *Regex
}

// NewSearch builds a free-text search pattern.
func NewSearch(search string, opts ...Option) (*Search, error) {
	s, err := CompileRegex(search)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &Search{Base: newBase(opts), Search: s}, nil
}

func (s *Search) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search(search=%s", s.Search)
	s.describe(&sb)
	sb.WriteString(")")
	return sb.String()
}

// Ellipsis stands for zero or more parameters.
type Ellipsis struct{}

func (Ellipsis) isParam()       {}
func (Ellipsis) String() string { return "..." }
