package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

// expr translates an expression. References and calls keep the
// unqualified name of their target as spelling.
func (t *translator) expr(n *sitter.Node) *cursor.Node {
	ext := t.extent(n)
	switch n.Type() {
	case "identifier":
		return cursor.NewNode(cursor.KindDeclRefExpr, t.text(n), ext)
	case "qualified_identifier", "template_function":
		name, _, _ := t.declName(n)
		return cursor.NewNode(cursor.KindDeclRefExpr, name, ext)
	case "field_expression":
		name := ""
		if f := n.ChildByFieldName("field"); f != nil {
			name, _, _ = t.declName(f)
		}
		ref := cursor.NewNode(cursor.KindMemberRefExpr, name, ext)
		if arg := n.ChildByFieldName("argument"); arg != nil {
			t.visit(arg, ref, scope{})
		}
		return ref
	case "field_initializer":
		ref := cursor.NewNode(cursor.KindMemberRefExpr, "", ext)
		for i, c := range namedChildren(n) {
			if i == 0 {
				name, _, _ := t.declName(c.node)
				ref.SetSpelling(name)
				continue
			}
			t.visit(c.node, ref, scope{})
		}
		return ref
	case "call_expression":
		return t.call(n)
	case "number_literal":
		text := t.text(n)
		if isFloating(text) {
			return cursor.NewNode(cursor.KindFloatingLiteral, "", ext).SetType(floatType(text))
		}
		return cursor.NewNode(cursor.KindIntegerLiteral, "", ext).SetType(intType(text))
	case "char_literal":
		return cursor.NewNode(cursor.KindIntegerLiteral, "", ext).SetType("char")
	case "string_literal", "raw_string_literal", "concatenated_string":
		return cursor.NewNode(cursor.KindStringLiteral, t.text(n), ext).SetType("const char *")
	case "lambda_expression":
		lambda := cursor.NewNode(cursor.KindUnexposedExpr, "", ext)
		if body := n.ChildByFieldName("body"); body != nil {
			t.visit(body, lambda, scope{})
		}
		return lambda
	}

	u := cursor.NewNode(cursor.KindUnexposedExpr, "", ext)
	t.visitChildren(n, u, scope{})
	return u
}

func (t *translator) call(n *sitter.Node) *cursor.Node {
	call := cursor.NewNode(cursor.KindCallExpr, "", t.extent(n))
	if fn := n.ChildByFieldName("function"); fn != nil {
		callee := t.expr(fn)
		call.SetSpelling(callee.Spelling())
		call.AddChild(callee)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for _, c := range namedChildren(args) {
			if c.node.Type() == "comment" {
				continue
			}
			call.AddArgument(t.expr(c.node))
		}
	}
	return call
}

func isFloating(lit string) bool {
	lower := strings.ToLower(lit)
	if strings.HasPrefix(lower, "0x") {
		return strings.Contains(lower, "p") || strings.Contains(lower, ".")
	}
	return strings.ContainsAny(lower, ".e")
}

func floatType(lit string) string {
	switch strings.ToLower(lit[len(lit)-1:]) {
	case "f":
		return "float"
	case "l":
		return "long double"
	}
	return "double"
}

func intType(lit string) string {
	lower := strings.ToLower(strings.ReplaceAll(lit, "'", ""))
	suffix := strings.TrimLeft(lower, "0123456789abcdefx")
	if strings.HasPrefix(lower, "0x") {
		suffix = strings.TrimLeft(lower[2:], "0123456789abcdef")
	}
	unsigned := strings.Contains(suffix, "u")
	var typ string
	switch {
	case strings.Contains(suffix, "ll"):
		typ = "long long"
	case strings.Contains(suffix, "l"):
		typ = "long"
	default:
		typ = "int"
	}
	if unsigned {
		return "unsigned " + typ
	}
	return typ
}
