package cpp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gnoswap-labs/sas/internal/backend"
	"github.com/gnoswap-labs/sas/internal/cursor"
)

// skipped nodes carry no cursor of their own and nothing below them is
// searched.
var skipped = map[string]bool{
	"comment":                     true,
	"primitive_type":              true,
	"type_identifier":             true,
	"sized_type_specifier":        true,
	"type_qualifier":              true,
	"storage_class_specifier":     true,
	"virtual":                     true,
	"virtual_specifier":           true,
	"explicit_function_specifier": true,
	"access_specifier":            true,
	"namespace_identifier":        true,
	"template_parameter_list":     true,
	"template_argument_list":      true,
	"base_class_clause":           true,
	"auto":                        true,
	"placeholder_type_specifier":  true,
	"type_descriptor":             true,
	"attribute_specifier":         true,
	"attribute_declaration":       true,
	"ms_declspec_modifier":        true,
	"this":                        true,
	"nullptr":                     true,
	"true":                        true,
	"false":                       true,
	"escape_sequence":             true,
	"system_lib_string":           true,
	"string_content":              true,
	"field_identifier":            true,
	"statement_identifier":        true,
	"using_declaration":           true,
	"static_assert_declaration":   true,
	"friend_declaration":          true,
	"template_type":               true,
	"dependent_type":              true,
	"decltype":                    true,
	"namespace_alias_definition":  true,
	"concept_definition":          true,
	"template_instantiation":      true,
	"requires_clause":             true,
	"preproc_call":                true,
	"noexcept":                    true,
	"throw_specifier":             true,
	"trailing_return_type":        true,
	"operator_name":               true,
	"destructor_name":             true,
}

// transparent nodes have no cursor, but their children are translated in
// their place.
var transparent = map[string]bool{
	"translation_unit":       true,
	"declaration_list":       true,
	"field_declaration_list": true,
	"linkage_specification":  true,
	"expression_statement":   true,
	"condition_clause":       true,
	"else_clause":            true,
	"argument_list":          true,
	"field_initializer_list": true,
	"catch_clause":           true,
	"parameter_list":         true,
	"ERROR":                  true,
}

type child struct {
	field string
	node  *sitter.Node
}

func namedChildren(n *sitter.Node) []child {
	out := make([]child, 0, n.NamedChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.IsNamed() {
			continue
		}
		out = append(out, child{field: n.FieldNameForChild(i), node: c})
	}
	return out
}

func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

// scope is the translation context of a node.
type scope struct {
	class     string       // enclosing class, for constructors
	templated bool         // the node is the body of a template
	span      *sitter.Node // the template whose extent the declaration takes
}

func (s scope) extentNode(n *sitter.Node) *sitter.Node {
	if s.span != nil {
		return s.span
	}
	return n
}

type translator struct {
	filename string
	src      []byte
	classes  map[string]bool
	diags    []cursor.Diagnostic
}

func newTranslator(filename string, src []byte) *translator {
	return &translator{filename: filename, src: src, classes: make(map[string]bool)}
}

func (t *translator) translate(root *sitter.Node) *cursor.TranslationUnit {
	t.collectClasses(root)

	tu := cursor.NewNode(cursor.KindTranslationUnit, t.filename, t.extent(root))
	t.visitChildren(root, tu, scope{})
	t.collectDiagnostics(root)
	backend.ResolveReferences(tu, backend.WithImplicitMembers())

	return &cursor.TranslationUnit{
		Filename:    t.filename,
		Source:      t.src,
		Root:        tu,
		Diagnostics: t.diags,
	}
}

// collectClasses records the names of all class definitions so that
// out-of-line member definitions can be told apart from namespaced
// functions.
func (t *translator) collectClasses(root *sitter.Node) {
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			if name := n.ChildByFieldName("name"); name != nil {
				spelling, _, _ := t.declName(name)
				t.classes[spelling] = true
			}
		}
		return true
	})
}

func (t *translator) collectDiagnostics(root *sitter.Node) {
	if !root.HasError() {
		return
	}
	walk(root, func(n *sitter.Node) bool {
		switch {
		case n.IsMissing():
			t.diags = append(t.diags, cursor.Diagnostic{
				Extent:  t.extent(n),
				Message: fmt.Sprintf("missing %s", n.Type()),
			})
		case n.Type() == "ERROR":
			text := truncate(normalize(t.text(n)), 32)
			t.diags = append(t.diags, cursor.Diagnostic{
				Extent:  t.extent(n),
				Message: fmt.Sprintf("unexpected %q", text),
			})
			return false
		}
		return true
	})
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func (t *translator) visitChildren(n *sitter.Node, out *cursor.Node, sc scope, skipFields ...string) {
	for _, c := range namedChildren(n) {
		if c.field != "" && contains(skipFields, c.field) {
			continue
		}
		t.visit(c.node, out, sc)
	}
}

func (t *translator) visit(n *sitter.Node, out *cursor.Node, sc scope) {
	typ := n.Type()
	switch {
	case skipped[typ]:
		return
	case transparent[typ]:
		t.visitChildren(n, out, sc)
		return
	}

	switch typ {
	case "namespace_definition":
		out.AddChild(t.namespace(n))
	case "class_specifier", "struct_specifier", "union_specifier":
		out.AddChild(t.class(n, sc))
	case "enum_specifier":
		out.AddChild(t.enum(n))
	case "template_declaration":
		t.template(n, out, sc)
	case "function_definition":
		out.AddChild(t.function(n, sc))
	case "declaration", "field_declaration":
		t.declaration(n, out, sc)
	case "parameter_declaration", "optional_parameter_declaration":
		out.AddChild(t.variable(n, cursor.KindVarDecl))
	case "type_definition":
		t.typedef(n, out, sc)
	case "alias_declaration":
		name := ""
		if nn := n.ChildByFieldName("name"); nn != nil {
			name = t.text(nn)
		}
		alias := cursor.NewNode(cursor.KindTypeAliasDecl, name, t.extent(sc.extentNode(n)))
		if typ := n.ChildByFieldName("type"); typ != nil {
			alias.SetType(normalize(t.text(typ)))
		}
		out.AddChild(alias)
	case "preproc_def", "preproc_function_def":
		name := ""
		if nn := n.ChildByFieldName("name"); nn != nil {
			name = t.text(nn)
		}
		out.AddChild(cursor.NewNode(cursor.KindMacroDefinition, name, t.extent(n)))
	case "preproc_include":
		path := ""
		if p := n.ChildByFieldName("path"); p != nil {
			path = strings.Trim(t.text(p), `"<>`)
		}
		out.AddChild(cursor.NewNode(cursor.KindInclusionDirective, path, t.extent(n)))
	case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
		t.visitChildren(n, out, sc, "condition", "name")
	case "compound_statement":
		out.AddChild(t.stmt(cursor.KindCompoundStmt, n))
	case "return_statement":
		out.AddChild(t.stmt(cursor.KindReturnStmt, n))
	case "if_statement":
		out.AddChild(t.stmt(cursor.KindIfStmt, n))
	case "for_statement":
		out.AddChild(t.stmt(cursor.KindForStmt, n))
	case "while_statement":
		out.AddChild(t.stmt(cursor.KindWhileStmt, n))
	case "for_range_loop":
		out.AddChild(t.rangeFor(n))
	default:
		switch {
		case strings.HasSuffix(typ, "_statement"):
			out.AddChild(t.stmt(cursor.KindUnexposedStmt, n))
		case n.IsNamed():
			out.AddChild(t.expr(n))
		}
	}
}

func (t *translator) stmt(kind cursor.Kind, n *sitter.Node) *cursor.Node {
	s := cursor.NewNode(kind, "", t.extent(n))
	t.visitChildren(n, s, scope{})
	return s
}

// namespace translates "namespace a::b {}" into nested namespaces.
func (t *translator) namespace(n *sitter.Node) *cursor.Node {
	var names []string
	if nn := n.ChildByFieldName("name"); nn != nil {
		for _, part := range strings.Split(t.text(nn), "::") {
			names = append(names, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "inline ")))
		}
	} else {
		names = []string{""}
	}

	ext := t.extent(n)
	outer := cursor.NewNode(cursor.KindNamespace, names[0], ext)
	innermost := outer
	for _, name := range names[1:] {
		ns := cursor.NewNode(cursor.KindNamespace, name, ext)
		innermost.AddChild(ns)
		innermost = ns
	}
	if body := n.ChildByFieldName("body"); body != nil {
		t.visitChildren(body, innermost, scope{})
	}
	return outer
}

func (t *translator) class(n *sitter.Node, sc scope) *cursor.Node {
	name, partial := "", false
	if nn := n.ChildByFieldName("name"); nn != nil {
		partial = nn.Type() == "template_type"
		name, _, _ = t.declName(nn)
	}

	kind := cursor.KindClassDecl
	if n.Type() != "class_specifier" {
		kind = cursor.KindStructDecl
	}
	if sc.templated {
		kind = cursor.KindClassTemplate
		if partial {
			kind = cursor.KindClassTemplatePartialSpecialization
		}
	}

	c := cursor.NewNode(kind, name, t.extent(sc.extentNode(n)))
	if body := n.ChildByFieldName("body"); body != nil {
		t.visitChildren(body, c, scope{class: name})
	}
	return c
}

func (t *translator) enum(n *sitter.Node) *cursor.Node {
	name := ""
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = t.text(nn)
	}
	e := cursor.NewNode(cursor.KindEnumDecl, name, t.extent(n))
	body := n.ChildByFieldName("body")
	if body == nil {
		return e
	}
	for _, c := range namedChildren(body) {
		if c.node.Type() != "enumerator" {
			continue
		}
		cn := ""
		if nn := c.node.ChildByFieldName("name"); nn != nil {
			cn = t.text(nn)
		}
		constant := cursor.NewNode(cursor.KindEnumConstantDecl, cn, t.extent(c.node)).SetType(name)
		if v := c.node.ChildByFieldName("value"); v != nil {
			t.visit(v, constant, scope{})
		}
		e.AddChild(constant)
	}
	return e
}

func (t *translator) template(n *sitter.Node, out *cursor.Node, sc scope) {
	params := n.ChildByFieldName("parameters")
	inner := scope{
		class:     sc.class,
		templated: params != nil && params.NamedChildCount() > 0,
		span:      n,
	}
	for _, c := range namedChildren(n) {
		if c.field == "parameters" {
			continue
		}
		t.visit(c.node, out, inner)
	}
}

func (t *translator) function(n *sitter.Node, sc scope) *cursor.Node {
	d := t.unwind(t.baseType(n), n.ChildByFieldName("declarator"))
	fn := t.functionNode(n, d, sc)
	for _, c := range namedChildren(n) {
		if c.node.Type() == "field_initializer_list" {
			t.visitChildren(c.node, fn, scope{})
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		t.visit(body, fn, scope{})
	}
	return fn
}

func (t *translator) functionKind(d declarator, sc scope) cursor.Kind {
	switch {
	case sc.templated:
		return cursor.KindFunctionTemplate
	case d.destructor:
		return cursor.KindDestructor
	case sc.class != "":
		if d.name == sc.class {
			return cursor.KindConstructor
		}
		return cursor.KindCXXMethod
	case d.scope != "":
		owner := lastScope(d.scope)
		if d.name == owner {
			return cursor.KindConstructor
		}
		if t.classes[owner] {
			return cursor.KindCXXMethod
		}
	}
	return cursor.KindFunctionDecl
}

// functionNode builds the cursor of a function definition or prototype,
// including its parameters.
func (t *translator) functionNode(n *sitter.Node, d declarator, sc scope) *cursor.Node {
	kind := t.functionKind(d, sc)
	result := d.typ
	if kind == cursor.KindConstructor || kind == cursor.KindDestructor {
		result = "void"
	}

	fn := cursor.NewNode(kind, d.name, t.extent(sc.extentNode(n))).SetResultType(result)
	types := make([]string, 0)
	if d.function != nil {
		if ps := d.function.ChildByFieldName("parameters"); ps != nil {
			for _, c := range namedChildren(ps) {
				switch c.node.Type() {
				case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
					p := t.variable(c.node, cursor.KindParmDecl)
					fn.AddArgument(p)
					types = append(types, p.Type())
				}
			}
			if hasVarargs(ps) {
				types = append(types, "...")
			}
		}
	}
	fn.SetType(fmt.Sprintf("%s (%s)", result, strings.Join(types, ", ")))
	return fn
}

// hasVarargs reports whether a parameter list ends with a C-style "...".
func hasVarargs(ps *sitter.Node) bool {
	for i := 0; i < int(ps.ChildCount()); i++ {
		if c := ps.Child(i); !c.IsNamed() && c.Type() == "..." {
			return true
		}
	}
	return false
}

// variable translates a parameter-like declaration with a single
// declarator.
func (t *translator) variable(n *sitter.Node, kind cursor.Kind) *cursor.Node {
	d := t.unwind(t.baseType(n), n.ChildByFieldName("declarator"))
	v := cursor.NewNode(kind, d.name, t.extent(n)).SetType(d.typ)
	if dv := n.ChildByFieldName("default_value"); dv != nil {
		t.visit(dv, v, scope{})
	}
	return v
}

func (t *translator) declaration(n *sitter.Node, out *cursor.Node, sc scope) {
	if typ := n.ChildByFieldName("type"); typ != nil && hasBody(typ) {
		t.visit(typ, out, scope{class: sc.class})
	}

	base := t.baseType(n)
	field := n.Type() == "field_declaration" && !t.hasStorage(n, "static")

	var last *cursor.Node
	first := true
	for _, c := range namedChildren(n) {
		if c.field != "declarator" {
			continue
		}
		d := t.unwind(base, c.node)
		if d.function != nil {
			last = t.functionNode(n, d, sc)
		} else {
			kind := cursor.KindVarDecl
			if field {
				kind = cursor.KindFieldDecl
			}
			start := c.node
			if first {
				start = n
			}
			ext := cursor.Extent{Start: t.extent(start).Start, End: t.extent(c.node).End}
			last = cursor.NewNode(kind, d.name, ext).SetType(d.typ)
			if d.value != nil {
				t.visit(d.value, last, scope{})
			}
		}
		out.AddChild(last)
		first = false
	}

	if dv := n.ChildByFieldName("default_value"); dv != nil && last != nil {
		t.visit(dv, last, scope{})
	}
}

func (t *translator) typedef(n *sitter.Node, out *cursor.Node, sc scope) {
	if typ := n.ChildByFieldName("type"); typ != nil && hasBody(typ) {
		t.visit(typ, out, scope{class: sc.class})
	}
	base := t.baseType(n)
	for _, c := range namedChildren(n) {
		if c.field != "declarator" {
			continue
		}
		d := t.unwind(base, c.node)
		out.AddChild(cursor.NewNode(cursor.KindTypedefDecl, d.name, t.extent(n)).SetType(d.typ))
	}
}

func (t *translator) rangeFor(n *sitter.Node) *cursor.Node {
	loop := cursor.NewNode(cursor.KindForStmt, "", t.extent(n))
	if decl := n.ChildByFieldName("declarator"); decl != nil {
		d := t.unwind(t.baseType(n), decl)
		loop.AddChild(cursor.NewNode(cursor.KindVarDecl, d.name, t.extent(decl)).SetType(d.typ))
	}
	for _, field := range []string{"right", "body"} {
		if c := n.ChildByFieldName(field); c != nil {
			t.visit(c, loop, scope{})
		}
	}
	return loop
}

func hasBody(n *sitter.Node) bool {
	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		return n.ChildByFieldName("body") != nil
	}
	return false
}

func (t *translator) hasStorage(n *sitter.Node, class string) bool {
	for _, c := range namedChildren(n) {
		if c.node.Type() == "storage_class_specifier" && t.text(c.node) == class {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (t *translator) text(n *sitter.Node) string {
	return n.Content(t.src)
}

func (t *translator) extent(n *sitter.Node) cursor.Extent {
	return cursor.Extent{
		Start: t.position(n.StartByte(), n.StartPoint()),
		End:   t.position(n.EndByte(), n.EndPoint()),
	}
}

// position converts tree-sitter's 0-based rows and columns.
func (t *translator) position(offset uint32, p sitter.Point) cursor.Position {
	return cursor.Position{
		Filename: t.filename,
		Offset:   int(offset),
		Line:     int(p.Row) + 1,
		Column:   int(p.Column) + 1,
	}
}
