package cursor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(line, col, offset int) Position {
	return Position{Filename: "a.cpp", Line: line, Column: col, Offset: offset}
}

func sampleTree() *Node {
	root := NewNode(KindTranslationUnit, "a.cpp", Extent{Start: at(1, 1, 0), End: at(5, 1, 40)})
	ns := NewNode(KindNamespace, "ns", Extent{Start: at(1, 1, 0), End: at(4, 2, 38)})
	fn := NewNode(KindFunctionDecl, "f", Extent{Start: at(2, 3, 15), End: at(3, 4, 35)}).SetResultType("int")
	param := NewNode(KindParmDecl, "x", Extent{Start: at(2, 9, 21), End: at(2, 14, 26)}).SetType("int")
	fn.AddArgument(param)
	fn.AddChild(NewNode(KindCompoundStmt, "", Extent{Start: at(2, 16, 28), End: at(3, 4, 35)}))
	ns.AddChild(fn)
	root.AddChild(ns, NewNode(KindVarDecl, "g", Extent{Start: at(4, 3, 38), End: at(4, 4, 39)}).SetType("long"))
	return root
}

func spellings(seq func(func(Cursor) bool)) []string {
	var out []string
	for c := range seq {
		out = append(out, c.Kind().String()+":"+c.Spelling())
	}
	return out
}

func TestTopLevel(t *testing.T) {
	t.Parallel()
	got := spellings(TopLevel(sampleTree()))
	assert.Equal(t, []string{"NAMESPACE:ns", "VAR_DECL:g"}, got)
}

func TestDescendants(t *testing.T) {
	t.Parallel()
	got := spellings(Descendants(sampleTree()))
	assert.Equal(t, []string{
		"NAMESPACE:ns",
		"FUNCTION_DECL:f",
		"PARM_DECL:x",
		"COMPOUND_STMT:",
		"VAR_DECL:g",
	}, got)
}

func TestDescendants_EarlyStop(t *testing.T) {
	t.Parallel()
	var seen []string
	for c := range Descendants(sampleTree()) {
		seen = append(seen, c.Spelling())
		if c.Kind() == KindFunctionDecl {
			break
		}
	}
	assert.Equal(t, []string{"ns", "f"}, seen)
}

func TestNode_Arguments(t *testing.T) {
	t.Parallel()
	root := sampleTree()
	fn := root.Child(0).Child(0)

	args := fn.Arguments()
	require.Len(t, args, 1)
	assert.Equal(t, "x", args[0].Spelling())
	assert.Equal(t, "int", args[0].Type())
	assert.Equal(t, 2, fn.NumChildren())

	// the returned slice is a copy
	args[0] = nil
	assert.NotNil(t, fn.Arguments()[0])
}

func TestNode_SortChildren(t *testing.T) {
	t.Parallel()
	n := NewNode(KindClassDecl, "C", Extent{})
	n.AddChild(
		NewNode(KindCXXMethod, "b", Extent{Start: at(3, 1, 30)}),
		NewNode(KindCXXMethod, "a", Extent{Start: at(2, 1, 10)}),
	)
	n.SortChildren()
	assert.Equal(t, []string{"CXX_METHOD:a", "CXX_METHOD:b"}, spellings(n.Children()))
}

func TestKind(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "CLASS_TEMPLATE_PARTIAL_SPECIALIZATION", KindClassTemplatePartialSpecialization.String())
	assert.Equal(t, "Kind(-1)", Kind(-1).String())

	k, ok := ParseKind("CALL_EXPR")
	require.True(t, ok)
	assert.Equal(t, KindCallExpr, k)
	_, ok = ParseKind("NOPE")
	assert.False(t, ok)

	assert.True(t, KindCXXMethod.IsDeclaration())
	assert.False(t, KindCallExpr.IsDeclaration())
	assert.True(t, KindMemberRefExpr.IsExpression())
	assert.Len(t, Kinds(), int(kindCount))
	for _, k := range Kinds() {
		assert.NotEmpty(t, k.String())
	}
}

func TestDump(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, sampleTree()))
	assert.Contains(t, buf.String(), "TRANSLATION_UNIT \"a.cpp\" [1:1-5:1]\n")
	assert.Contains(t, buf.String(), "    FUNCTION_DECL \"f\" result=\"int\" [2:3-3:4]\n")
	assert.Contains(t, buf.String(), "      PARM_DECL \"x\" type=\"int\" [2:9-2:14]\n")
}

func TestTranslationUnit_Text(t *testing.T) {
	t.Parallel()
	tu := &TranslationUnit{Source: []byte("int main() {}")}
	assert.Equal(t, "main", tu.Text(Extent{Start: Position{Offset: 4}, End: Position{Offset: 8}}))
	assert.Equal(t, "", tu.Text(Extent{Start: Position{Offset: 4}, End: Position{Offset: 80}}))
	assert.True(t, Extent{Start: Position{Offset: 0}, End: Position{Offset: 10}}.Contains(
		Extent{Start: Position{Offset: 2}, End: Position{Offset: 3}}))
}
