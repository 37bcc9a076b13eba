package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

func TestSymbolTable(t *testing.T) {
	t.Parallel()
	st := NewSymbolTable()
	st.Define("x", SymbolInfo{Kind: cursor.KindVarDecl, Type: "int"})

	st.Push()
	st.Define("x", SymbolInfo{Kind: cursor.KindVarDecl, Type: "double"})
	st.Define("", SymbolInfo{Kind: cursor.KindVarDecl, Type: "char"})
	assert.Equal(t, 2, st.Depth())

	info, ok := st.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "double", info.Type)
	assert.False(t, st.IsDefined(""))

	st.Pop()
	info, ok = st.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "int", info.Type)

	st.Pop()
	assert.Equal(t, 1, st.Depth(), "the outermost scope stays")

	st.DefineOuter("x", SymbolInfo{Type: "long"})
	info, _ = st.Lookup("x")
	assert.Equal(t, "int", info.Type, "DefineOuter keeps the first declaration")
	assert.False(t, st.IsDefined("y"))
}

func TestResolveReferences(t *testing.T) {
	t.Parallel()
	node := func(kind cursor.Kind, spelling string) *cursor.Node {
		return cursor.NewNode(kind, spelling, cursor.Extent{})
	}

	// int g;
	// int get(int x) { { double x; x; } x; g; member; get(x); }
	// struct S { char member; };
	inner := node(cursor.KindDeclRefExpr, "x")
	outer := node(cursor.KindDeclRefExpr, "x")
	global := node(cursor.KindDeclRefExpr, "g")
	member := node(cursor.KindMemberRefExpr, "member")
	call := node(cursor.KindCallExpr, "get")
	call.AddArgument(node(cursor.KindDeclRefExpr, "x"))

	fn := node(cursor.KindFunctionDecl, "get").SetResultType("int")
	fn.AddArgument(node(cursor.KindParmDecl, "x").SetType("int"))
	fn.AddChild(node(cursor.KindCompoundStmt, "").AddChild(
		node(cursor.KindCompoundStmt, "").AddChild(
			node(cursor.KindVarDecl, "x").SetType("double"),
			inner,
		),
		outer, global, member, call,
	))

	root := node(cursor.KindTranslationUnit, "t.cpp").AddChild(
		node(cursor.KindVarDecl, "g").SetType("int"),
		fn,
		node(cursor.KindStructDecl, "S").AddChild(node(cursor.KindFieldDecl, "member").SetType("char")),
	)

	ResolveReferences(root)

	assert.Equal(t, "double", inner.Type())
	assert.Equal(t, "int", outer.Type())
	assert.Equal(t, "int", global.Type())
	assert.Equal(t, "char", member.Type())
	assert.Equal(t, "int", call.ResultType())
	assert.Equal(t, "int", call.Type())
}

func TestResolveReferences_CallScopes(t *testing.T) {
	t.Parallel()
	node := func(kind cursor.Kind, spelling string) *cursor.Node {
		return cursor.NewNode(kind, spelling, cursor.Extent{})
	}
	fn := func(kind cursor.Kind, name, result string) *cursor.Node {
		return node(kind, name).SetResultType(result)
	}
	call := func(name string, member bool) *cursor.Node {
		c := node(cursor.KindCallExpr, name)
		if member {
			c.AddChild(node(cursor.KindMemberRefExpr, name))
		} else {
			c.AddChild(node(cursor.KindDeclRefExpr, name))
		}
		return c
	}

	// struct W { long get(); void m() { get(); } };
	// namespace ns { char get(); void f() { get(); } }
	// int get();
	// void main() { get(); w.get(); }
	inClass := call("get", false)
	inNamespace := call("get", false)
	global := call("get", false)
	member := call("get", true)

	root := node(cursor.KindTranslationUnit, "t.cpp").AddChild(
		node(cursor.KindStructDecl, "W").AddChild(
			fn(cursor.KindCXXMethod, "get", "long"),
			fn(cursor.KindCXXMethod, "m", "void").AddChild(node(cursor.KindCompoundStmt, "").AddChild(inClass)),
		),
		node(cursor.KindNamespace, "ns").AddChild(
			fn(cursor.KindFunctionDecl, "get", "char"),
			fn(cursor.KindFunctionDecl, "f", "void").AddChild(node(cursor.KindCompoundStmt, "").AddChild(inNamespace)),
		),
		fn(cursor.KindFunctionDecl, "get", "int"),
		fn(cursor.KindFunctionDecl, "main", "void").AddChild(node(cursor.KindCompoundStmt, "").AddChild(global, member)),
	)

	ResolveReferences(root, WithImplicitMembers())

	assert.Equal(t, "long", inClass.ResultType())
	assert.Equal(t, "char", inNamespace.ResultType())
	assert.Equal(t, "int", global.ResultType())
	assert.Equal(t, "long", member.ResultType())
}

func TestResolveReferences_NoImplicitMembers(t *testing.T) {
	t.Parallel()
	inMethod := cursor.NewNode(cursor.KindCallExpr, "Get", cursor.Extent{})
	body := cursor.NewNode(cursor.KindCompoundStmt, "", cursor.Extent{}).AddChild(inMethod)

	// type T struct{}; func (T) Get() (int, error); func (T) Run() { Get() }; func Get() int
	root := cursor.NewNode(cursor.KindTranslationUnit, "t.go", cursor.Extent{}).AddChild(
		cursor.NewNode(cursor.KindStructDecl, "T", cursor.Extent{}).AddChild(
			cursor.NewNode(cursor.KindCXXMethod, "Get", cursor.Extent{}).SetResultType("(int, error)"),
			cursor.NewNode(cursor.KindCXXMethod, "Run", cursor.Extent{}).AddChild(body),
		),
		cursor.NewNode(cursor.KindFunctionDecl, "Get", cursor.Extent{}).SetResultType("int"),
	)

	ResolveReferences(root)
	assert.Equal(t, "int", inMethod.ResultType())
}
