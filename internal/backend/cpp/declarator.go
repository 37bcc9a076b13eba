package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// declarator is the result of unwinding a C++ declarator chain.
type declarator struct {
	name       string
	scope      string       // "A::B" for qualified names
	typ        string       // the declared type
	function   *sitter.Node // function_declarator, if this declares a function
	value      *sitter.Node // initializer
	nameNode   *sitter.Node // innermost name, nil for abstract declarators
	destructor bool
}

// unwind walks d from the outside in, applying pointer, reference and
// array suffixes to base.
func (t *translator) unwind(base string, d *sitter.Node) declarator {
	out := declarator{typ: base}
	for d != nil {
		switch d.Type() {
		case "init_declarator":
			out.value = d.ChildByFieldName("value")
			d = d.ChildByFieldName("declarator")
		case "pointer_declarator", "abstract_pointer_declarator":
			out.typ = addSuffix(out.typ, "*")
			for _, c := range namedChildren(d) {
				if c.node.Type() == "type_qualifier" {
					out.typ += t.text(c.node)
				}
			}
			d = inner(d)
		case "reference_declarator", "abstract_reference_declarator":
			op := "&"
			if d.ChildCount() > 0 && d.Child(0).Type() == "&&" {
				op = "&&"
			}
			out.typ = addSuffix(out.typ, op)
			d = inner(d)
		case "array_declarator", "abstract_array_declarator":
			size := ""
			if s := d.ChildByFieldName("size"); s != nil {
				size = t.text(s)
			}
			out.typ = addDimension(out.typ, "["+size+"]")
			d = inner(d)
		case "function_declarator", "abstract_function_declarator":
			if p := d.ChildByFieldName("declarator"); p != nil && p.Type() == "parenthesized_declarator" {
				// pointer to function: the parameters belong to the type
				params := ""
				if ps := d.ChildByFieldName("parameters"); ps != nil {
					params = t.text(ps)
				}
				out.typ = out.typ + " (*)" + params
				for d = inner(p); d != nil && strings.HasSuffix(d.Type(), "declarator"); d = inner(d) {
				}
				continue
			}
			out.function = d
			if rt := trailingReturnType(d); rt != nil {
				out.typ = t.text(rt)
			}
			d = d.ChildByFieldName("declarator")
		case "variadic_declarator":
			out.typ += "..."
			d = inner(d)
		case "parenthesized_declarator", "attributed_declarator":
			d = inner(d)
		default:
			out.nameNode = d
			out.name, out.scope, out.destructor = t.declName(d)
			d = nil
		}
	}
	return out
}

// inner returns the nested declarator of d.
func inner(d *sitter.Node) *sitter.Node {
	if n := d.ChildByFieldName("declarator"); n != nil {
		return n
	}
	for i := int(d.NamedChildCount()) - 1; i >= 0; i-- {
		c := d.NamedChild(i)
		switch c.Type() {
		case "type_qualifier", "attribute_declaration", "ms_pointer_modifier", "ms_based_modifier":
			continue
		}
		return c
	}
	return nil
}

func trailingReturnType(fn *sitter.Node) *sitter.Node {
	for _, c := range namedChildren(fn) {
		if c.node.Type() == "trailing_return_type" {
			if c.node.NamedChildCount() > 0 {
				return c.node.NamedChild(0)
			}
		}
	}
	return nil
}

// declName returns the unqualified name, the qualifying scope, and whether
// the name is a destructor.
func (t *translator) declName(n *sitter.Node) (name, scope string, destructor bool) {
	switch n.Type() {
	case "qualified_identifier", "nested_namespace_specifier":
		if s := n.ChildByFieldName("scope"); s != nil {
			scope = stripTemplateArgs(t.text(s))
		}
		inner := n.ChildByFieldName("name")
		if inner == nil {
			return t.text(n), scope, false
		}
		name, nested, destructor := t.declName(inner)
		if nested != "" {
			if scope != "" {
				scope += "::"
			}
			scope += nested
		}
		return name, scope, destructor
	case "destructor_name":
		return compact(t.text(n)), "", true
	case "operator_name":
		return operatorName(t.text(n)), "", false
	case "template_function", "template_type", "template_method":
		if inner := n.ChildByFieldName("name"); inner != nil {
			return t.declName(inner)
		}
	case "operator_cast":
		if typ := n.ChildByFieldName("type"); typ != nil {
			return "operator " + normalize(t.text(typ)), "", false
		}
	}
	return normalize(t.text(n)), "", false
}

// baseType spells the type specifier of a declaration, including its
// cv-qualifiers, the way a compiler would print it: "const char".
func (t *translator) baseType(n *sitter.Node) string {
	var quals []string
	var typ string
	for _, c := range namedChildren(n) {
		switch {
		case c.field == "type":
			typ = t.typeName(c.node)
		case c.node.Type() == "type_qualifier" && c.field == "":
			quals = append(quals, t.text(c.node))
		}
	}
	if typ == "" {
		return strings.Join(quals, " ")
	}
	return strings.Join(append(quals, typ), " ")
}

// typeName spells a type specifier. Class and enum specifiers with a body
// are spelled by name only.
func (t *translator) typeName(n *sitter.Node) string {
	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		if name := n.ChildByFieldName("name"); name != nil {
			return normalize(t.text(name))
		}
		return ""
	}
	return normalize(t.text(n))
}

func addSuffix(typ, op string) string {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return op
	}
	if strings.HasSuffix(typ, "*") || strings.HasSuffix(typ, "&") {
		return typ + op
	}
	return typ + " " + op
}

// normalize collapses runs of whitespace.
// addDimension adds an array dimension to typ, spelled like libclang:
// "int [2][3]", "char *[4]". Declarators are unwound from the outside in,
// so a new dimension goes before the ones already present.
func addDimension(typ, dim string) string {
	typ = strings.TrimSpace(typ)
	switch i := strings.Index(typ, " ["); {
	case i >= 0:
		return typ[:i+1] + dim + typ[i+1:]
	case strings.HasSuffix(typ, "*"), strings.HasSuffix(typ, "&"):
		return typ + dim
	}
	return typ + " " + dim
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// operatorName spells "operator ==" as "operator==" but keeps the space in
// "operator new".
func operatorName(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return compact(s)
	}
	rest := strings.Join(fields[1:], " ")
	if c := rest[0]; c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
		return fields[0] + " " + rest
	}
	return fields[0] + compact(rest)
}

// stripTemplateArgs turns "Foo<T>::Bar<U>" into "Foo::Bar".
func stripTemplateArgs(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
		case depth == 0 && r != ' ':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// lastScope returns the innermost component of a scope: "B" for "A::B".
func lastScope(scope string) string {
	if i := strings.LastIndex(scope, "::"); i >= 0 {
		return scope[i+2:]
	}
	return scope
}
