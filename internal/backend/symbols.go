package backend

import (
	"slices"
	"strings"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

// SymbolInfo describes a declared entity.
type SymbolInfo struct {
	Kind       cursor.Kind
	Type       string
	ResultType string
}

// SymbolTable is a stack of lexical scopes. Lookups search the innermost
// scope first.
type SymbolTable struct {
	scopes []map[string]SymbolInfo
}

// NewSymbolTable returns a table with a single, outermost scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]SymbolInfo{make(map[string]SymbolInfo)}}
}

func (st *SymbolTable) Push() { st.scopes = append(st.scopes, make(map[string]SymbolInfo)) }

// Pop discards the innermost scope. The outermost scope is never removed.
func (st *SymbolTable) Pop() {
	if len(st.scopes) > 1 {
		st.scopes = st.scopes[:len(st.scopes)-1]
	}
}

// Define adds name to the innermost scope, replacing a previous entry of
// the same scope.
func (st *SymbolTable) Define(name string, info SymbolInfo) {
	if name == "" {
		return
	}
	st.scopes[len(st.scopes)-1][name] = info
}

// DefineOuter adds name to the outermost scope unless already present.
func (st *SymbolTable) DefineOuter(name string, info SymbolInfo) {
	if name == "" {
		return
	}
	if _, ok := st.scopes[0][name]; !ok {
		st.scopes[0][name] = info
	}
}

func (st *SymbolTable) Lookup(name string) (SymbolInfo, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if info, ok := st.scopes[i][name]; ok {
			return info, true
		}
	}
	return SymbolInfo{}, false
}

func (st *SymbolTable) IsDefined(name string) bool {
	_, ok := st.Lookup(name)
	return ok
}

// Depth returns the number of open scopes.
func (st *SymbolTable) Depth() int { return len(st.scopes) }

func isFunction(k cursor.Kind) bool {
	switch k {
	case cursor.KindFunctionDecl, cursor.KindCXXMethod, cursor.KindConstructor,
		cursor.KindDestructor, cursor.KindFunctionTemplate:
		return true
	}
	return false
}

func isClass(k cursor.Kind) bool {
	switch k {
	case cursor.KindClassDecl, cursor.KindStructDecl, cursor.KindClassTemplate,
		cursor.KindClassTemplatePartialSpecialization:
		return true
	}
	return false
}

func opensScope(k cursor.Kind) bool {
	switch k {
	case cursor.KindCompoundStmt, cursor.KindForStmt, cursor.KindIfStmt, cursor.KindWhileStmt,
		cursor.KindNamespace:
		return true
	}
	return isFunction(k) || isClass(k)
}

// site locates a node in the namespace and class nesting of the file.
type site struct {
	namespaces []string
	class      string
}

func (s site) enter(n *cursor.Node) site {
	switch k := n.Kind(); {
	case k == cursor.KindNamespace && n.Spelling() != "":
		s.namespaces = append(slices.Clip(s.namespaces), n.Spelling())
	case isClass(k):
		s.class = n.Spelling()
	}
	return s
}

// declaration is an entity that can be referenced from outside the lexical
// scope declaring it.
type declaration struct {
	SymbolInfo
	namespace string // "A::B"
	class     string // enclosing class body, if any
	member    bool
}

// declIndex holds the declarations of a file by name, in source order.
type declIndex map[string][]declaration

func (idx declIndex) collect(n *cursor.Node, at site, inFunction bool) {
	k := n.Kind()
	if isFunction(k) || k == cursor.KindFieldDecl || (k == cursor.KindVarDecl && !inFunction) {
		member := k == cursor.KindFieldDecl || k == cursor.KindCXXMethod ||
			k == cursor.KindConstructor || k == cursor.KindDestructor || at.class != ""
		idx[n.Spelling()] = append(idx[n.Spelling()], declaration{
			SymbolInfo: SymbolInfo{Kind: k, Type: n.Type(), ResultType: n.ResultType()},
			namespace:  strings.Join(at.namespaces, "::"),
			class:      at.class,
			member:     member,
		})
	}

	at = at.enter(n)
	inFunction = inFunction || isFunction(k)
	for i := 0; i < n.NumChildren(); i++ {
		idx.collect(n.Child(i), at, inFunction)
	}
}

// lookup finds the declaration a reference to name at the given site
// denotes. Member access considers members first and then free entities.
// Otherwise the members of the enclosing class come first when
// implicitMembers is set, followed by free entities of the enclosing
// namespaces from the innermost outward, and then by any free entity.
// Members of other classes are never found without member access.
func (idx declIndex) lookup(name string, at site, memberAccess, implicitMembers bool, accept func(cursor.Kind) bool) (SymbolInfo, bool) {
	candidates := idx[name]
	first := func(want func(declaration) bool) (SymbolInfo, bool) {
		for _, d := range candidates {
			if accept(d.Kind) && want(d) {
				return d.SymbolInfo, true
			}
		}
		return SymbolInfo{}, false
	}
	free := func(d declaration) bool { return !d.member }

	if memberAccess {
		if info, ok := first(func(d declaration) bool { return d.member }); ok {
			return info, true
		}
		return first(free)
	}
	if implicitMembers && at.class != "" {
		if info, ok := first(func(d declaration) bool { return d.member && d.class == at.class }); ok {
			return info, true
		}
	}
	for i := len(at.namespaces); i >= 0; i-- {
		ns := strings.Join(at.namespaces[:i], "::")
		if info, ok := first(func(d declaration) bool { return free(d) && d.namespace == ns }); ok {
			return info, true
		}
	}
	return first(free)
}

func anyKind(cursor.Kind) bool { return true }

// ResolveOption configures ResolveReferences.
type ResolveOption func(*resolver)

// WithImplicitMembers makes unqualified names inside a class body refer to
// the members of that class first, as in C++.
func WithImplicitMembers() ResolveOption {
	return func(r *resolver) { r.implicitMembers = true }
}

type resolver struct {
	decls           declIndex
	scopes          *SymbolTable
	implicitMembers bool
}

// ResolveReferences fills in the types of references and calls whose type
// the backend could not spell while translating. Local names are resolved
// through lexical scopes first; everything else through the namespace and
// class nesting of the reference.
func ResolveReferences(root *cursor.Node, opts ...ResolveOption) {
	r := &resolver{decls: make(declIndex), scopes: NewSymbolTable()}
	for _, opt := range opts {
		opt(r)
	}
	r.decls.collect(root, site{}, false)
	r.resolve(root, site{})
}

func (r *resolver) resolve(n *cursor.Node, at site) {
	k := n.Kind()
	switch k {
	case cursor.KindVarDecl, cursor.KindParmDecl:
		r.scopes.Define(n.Spelling(), SymbolInfo{Kind: k, Type: n.Type()})
	case cursor.KindDeclRefExpr:
		if n.Type() == "" {
			if info, ok := r.scopes.Lookup(n.Spelling()); ok {
				n.SetType(info.Type)
			} else if info, ok := r.decls.lookup(n.Spelling(), at, false, r.implicitMembers, anyKind); ok {
				n.SetType(info.Type)
			}
		}
	case cursor.KindMemberRefExpr:
		if n.Type() == "" {
			if info, ok := r.decls.lookup(n.Spelling(), at, true, r.implicitMembers, anyKind); ok {
				n.SetType(info.Type)
			}
		}
	case cursor.KindCallExpr:
		memberAccess := n.NumChildren() > 0 && n.Child(0).Kind() == cursor.KindMemberRefExpr
		if info, ok := r.decls.lookup(n.Spelling(), at, memberAccess, r.implicitMembers, isFunction); ok {
			if n.ResultType() == "" {
				n.SetResultType(info.ResultType)
			}
			if n.Type() == "" {
				n.SetType(info.ResultType)
			}
		}
	}

	if opensScope(k) {
		r.scopes.Push()
		defer r.scopes.Pop()
	}
	inner := at.enter(n)
	for i := 0; i < n.NumChildren(); i++ {
		r.resolve(n.Child(i), inner)
	}
}
