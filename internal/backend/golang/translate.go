package golang

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/gnoswap-labs/sas/internal/backend"
	"github.com/gnoswap-labs/sas/internal/cursor"
)

type translator struct {
	fset     *token.FileSet
	filename string
	src      []byte

	// methods by receiver type name, for types declared in the file
	methods map[string][]*ast.FuncDecl
	types   map[string]bool
}

func newTranslator(fset *token.FileSet, filename string, src []byte) *translator {
	return &translator{
		fset:     fset,
		filename: filename,
		src:      src,
		methods:  make(map[string][]*ast.FuncDecl),
		types:    make(map[string]bool),
	}
}

func (t *translator) translate(f *ast.File) *cursor.TranslationUnit {
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			t.types[s.(*ast.TypeSpec).Name.Name] = true
		}
	}

	ins := inspector.New([]*ast.File{f})
	ins.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)
		if fd.Recv == nil {
			return
		}
		if recv := receiverName(fd.Recv); t.types[recv] {
			t.methods[recv] = append(t.methods[recv], fd)
		}
	})

	root := cursor.NewNode(cursor.KindTranslationUnit, t.filename, t.fileExtent(f))
	root.AddChild(cursor.NewNode(cursor.KindNamespace, f.Name.Name, t.extent(f.Package, f.Name.End())))
	for _, d := range f.Decls {
		t.decl(d, root)
	}
	backend.ResolveReferences(root)

	return &cursor.TranslationUnit{
		Filename: t.filename,
		Source:   t.src,
		Root:     root,
	}
}

func (t *translator) decl(d ast.Decl, out *cursor.Node) {
	switch d := d.(type) {
	case *ast.FuncDecl:
		// methods of local types are emitted inside the type
		if d.Recv != nil && t.types[receiverName(d.Recv)] {
			return
		}
		out.AddChild(t.function(d))
	case *ast.GenDecl:
		for _, s := range d.Specs {
			switch s := s.(type) {
			case *ast.TypeSpec:
				out.AddChild(t.typeSpec(d, s))
			case *ast.ValueSpec:
				t.valueSpec(d, s, out)
			case *ast.ImportSpec:
				path, err := strconv.Unquote(s.Path.Value)
				if err != nil {
					path = s.Path.Value
				}
				out.AddChild(cursor.NewNode(cursor.KindInclusionDirective, path, t.extent(s.Pos(), s.End())))
			}
		}
	}
}

func (t *translator) function(fd *ast.FuncDecl) *cursor.Node {
	kind := cursor.KindFunctionDecl
	switch {
	case fd.Type.TypeParams != nil && len(fd.Type.TypeParams.List) > 0:
		kind = cursor.KindFunctionTemplate
	case fd.Recv != nil:
		kind = cursor.KindCXXMethod
	}

	fn := t.signature(kind, fd.Name.Name, fd.Type, t.extent(fd.Pos(), fd.End()))
	if fd.Body != nil {
		t.stmt(fd.Body, fn)
	}
	return fn
}

// signature builds a function-like cursor with its parameters.
func (t *translator) signature(kind cursor.Kind, name string, ft *ast.FuncType, ext cursor.Extent) *cursor.Node {
	fn := cursor.NewNode(kind, name, ext).
		SetType(types.ExprString(ft)).
		SetResultType(resultType(ft.Results))
	if ft.Params == nil {
		return fn
	}
	for _, field := range ft.Params.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			fn.AddArgument(cursor.NewNode(cursor.KindParmDecl, "", t.extent(field.Pos(), field.End())).SetType(typ))
			continue
		}
		for _, n := range field.Names {
			fn.AddArgument(cursor.NewNode(cursor.KindParmDecl, n.Name, t.extent(n.Pos(), field.End())).SetType(typ))
		}
	}
	return fn
}

func (t *translator) typeSpec(gd *ast.GenDecl, ts *ast.TypeSpec) *cursor.Node {
	kind := cursor.KindTypedefDecl
	switch ts.Type.(type) {
	case *ast.StructType:
		kind = cursor.KindStructDecl
	case *ast.InterfaceType:
		kind = cursor.KindClassDecl
	}
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		kind = cursor.KindClassTemplate
	}
	if ts.Assign.IsValid() {
		kind = cursor.KindTypeAliasDecl
	}

	start := ts.Pos()
	if !gd.Lparen.IsValid() {
		start = gd.Pos()
	}
	node := cursor.NewNode(kind, ts.Name.Name, t.extent(start, ts.End())).
		SetType(types.ExprString(ts.Type))

	switch typ := ts.Type.(type) {
	case *ast.StructType:
		for _, field := range typ.Fields.List {
			ftype := types.ExprString(field.Type)
			if len(field.Names) == 0 {
				node.AddChild(cursor.NewNode(cursor.KindFieldDecl, embeddedName(field.Type), t.extent(field.Pos(), field.End())).SetType(ftype))
				continue
			}
			for _, n := range field.Names {
				node.AddChild(cursor.NewNode(cursor.KindFieldDecl, n.Name, t.extent(n.Pos(), field.End())).SetType(ftype))
			}
		}
	case *ast.InterfaceType:
		for _, field := range typ.Methods.List {
			ft, ok := field.Type.(*ast.FuncType)
			if !ok || len(field.Names) == 0 {
				continue
			}
			node.AddChild(t.signature(cursor.KindCXXMethod, field.Names[0].Name, ft, t.extent(field.Pos(), field.End())))
		}
	}

	for _, fd := range t.methods[ts.Name.Name] {
		node.AddChild(t.function(fd))
	}
	node.SortChildren()
	return node
}

func (t *translator) valueSpec(gd *ast.GenDecl, vs *ast.ValueSpec, out *cursor.Node) {
	var typ string
	if vs.Type != nil {
		typ = types.ExprString(vs.Type)
	}
	paired := len(vs.Values) == len(vs.Names)

	var last *cursor.Node
	for i, n := range vs.Names {
		if n.Name == "_" {
			continue
		}
		start := n.Pos()
		if i == 0 {
			start = vs.Pos()
			if !gd.Lparen.IsValid() {
				start = gd.Pos()
			}
		}
		v := cursor.NewNode(cursor.KindVarDecl, n.Name, t.extent(start, n.End()))
		vtyp := typ
		if paired {
			if vtyp == "" {
				vtyp = inferType(vs.Values[i])
			}
			v.AddChild(t.expr(vs.Values[i]))
		}
		out.AddChild(v.SetType(vtyp))
		last = v
	}
	if !paired && last != nil {
		for _, e := range vs.Values {
			last.AddChild(t.expr(e))
		}
	}
}

func (t *translator) stmt(s ast.Stmt, out *cursor.Node) {
	switch s := s.(type) {
	case nil:
	case *ast.BlockStmt:
		block := cursor.NewNode(cursor.KindCompoundStmt, "", t.extent(s.Pos(), s.End()))
		for _, c := range s.List {
			t.stmt(c, block)
		}
		out.AddChild(block)
	case *ast.ReturnStmt:
		ret := cursor.NewNode(cursor.KindReturnStmt, "", t.extent(s.Pos(), s.End()))
		for _, e := range s.Results {
			ret.AddChild(t.expr(e))
		}
		out.AddChild(ret)
	case *ast.IfStmt:
		n := cursor.NewNode(cursor.KindIfStmt, "", t.extent(s.Pos(), s.End()))
		t.stmt(s.Init, n)
		n.AddChild(t.expr(s.Cond))
		t.stmt(s.Body, n)
		t.stmt(s.Else, n)
		out.AddChild(n)
	case *ast.ForStmt:
		n := cursor.NewNode(cursor.KindForStmt, "", t.extent(s.Pos(), s.End()))
		t.stmt(s.Init, n)
		if s.Cond != nil {
			n.AddChild(t.expr(s.Cond))
		}
		t.stmt(s.Post, n)
		t.stmt(s.Body, n)
		out.AddChild(n)
	case *ast.RangeStmt:
		n := cursor.NewNode(cursor.KindForStmt, "", t.extent(s.Pos(), s.End()))
		for _, e := range []ast.Expr{s.Key, s.Value} {
			id, ok := e.(*ast.Ident)
			if !ok || id.Name == "_" {
				continue
			}
			if s.Tok == token.DEFINE {
				n.AddChild(cursor.NewNode(cursor.KindVarDecl, id.Name, t.extent(id.Pos(), id.End())))
			} else {
				n.AddChild(t.expr(id))
			}
		}
		n.AddChild(t.expr(s.X))
		t.stmt(s.Body, n)
		out.AddChild(n)
	case *ast.AssignStmt:
		t.assign(s, out)
	case *ast.ExprStmt:
		out.AddChild(t.expr(s.X))
	case *ast.DeclStmt:
		t.decl(s.Decl, out)
	default:
		n := cursor.NewNode(cursor.KindUnexposedStmt, "", t.extent(s.Pos(), s.End()))
		t.children(s, n)
		out.AddChild(n)
	}
}

// assign translates short variable declarations into variable
// declarations and plain assignments into their operand expressions.
func (t *translator) assign(s *ast.AssignStmt, out *cursor.Node) {
	if s.Tok != token.DEFINE {
		for _, e := range s.Lhs {
			out.AddChild(t.expr(e))
		}
		for _, e := range s.Rhs {
			out.AddChild(t.expr(e))
		}
		return
	}

	paired := len(s.Lhs) == len(s.Rhs)
	var first *cursor.Node
	for i, e := range s.Lhs {
		id, ok := e.(*ast.Ident)
		if !ok || id.Name == "_" {
			continue
		}
		start := id.Pos()
		if i == 0 {
			start = s.Pos()
		}
		v := cursor.NewNode(cursor.KindVarDecl, id.Name, t.extent(start, id.End()))
		if paired {
			v.SetType(inferType(s.Rhs[i]))
			v.AddChild(t.expr(s.Rhs[i]))
		}
		out.AddChild(v)
		if first == nil {
			first = v
		}
	}
	if paired {
		return
	}
	target := first
	if target == nil {
		target = out
	}
	for _, e := range s.Rhs {
		target.AddChild(t.expr(e))
	}
}

func (t *translator) expr(e ast.Expr) *cursor.Node {
	ext := t.extent(e.Pos(), e.End())
	switch e := e.(type) {
	case *ast.Ident:
		return cursor.NewNode(cursor.KindDeclRefExpr, e.Name, ext)
	case *ast.SelectorExpr:
		return cursor.NewNode(cursor.KindMemberRefExpr, e.Sel.Name, ext).AddChild(t.expr(e.X))
	case *ast.CallExpr:
		call := cursor.NewNode(cursor.KindCallExpr, calleeName(e.Fun), ext)
		call.AddChild(t.expr(e.Fun))
		for _, a := range e.Args {
			call.AddArgument(t.expr(a))
		}
		return call
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT, token.CHAR:
			return cursor.NewNode(cursor.KindIntegerLiteral, "", ext).SetType(inferType(e))
		case token.FLOAT, token.IMAG:
			return cursor.NewNode(cursor.KindFloatingLiteral, "", ext).SetType(inferType(e))
		default:
			return cursor.NewNode(cursor.KindStringLiteral, e.Value, ext).SetType("string")
		}
	case *ast.CompositeLit:
		lit := cursor.NewNode(cursor.KindUnexposedExpr, "", ext).SetType(inferType(e))
		if e.Type != nil {
			lit.AddChild(t.expr(e.Type))
		}
		for _, elt := range e.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok || !isStructLit(e) {
				lit.AddChild(t.expr(elt))
				continue
			}
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				lit.AddChild(t.expr(elt))
				continue
			}
			// the key of a struct literal names a field
			field := cursor.NewNode(cursor.KindMemberRefExpr, key.Name, t.extent(key.Pos(), key.End()))
			lit.AddChild(field, t.expr(kv.Value))
		}
		return lit
	case *ast.FuncLit:
		lit := cursor.NewNode(cursor.KindUnexposedExpr, "", ext).SetType(types.ExprString(e.Type))
		t.stmt(e.Body, lit)
		return lit
	}

	n := cursor.NewNode(cursor.KindUnexposedExpr, "", ext).SetType(inferType(e))
	t.children(e, n)
	return n
}

// children translates the direct statement and expression children of n.
func (t *translator) children(n ast.Node, out *cursor.Node) {
	ast.Inspect(n, func(c ast.Node) bool {
		if c == n {
			return true
		}
		switch c := c.(type) {
		case ast.Stmt:
			t.stmt(c, out)
		case ast.Expr:
			out.AddChild(t.expr(c))
		}
		return false
	})
}

func (t *translator) position(p token.Pos) cursor.Position {
	pp := t.fset.PositionFor(p, false)
	return cursor.Position{
		Filename: t.filename,
		Offset:   pp.Offset,
		Line:     pp.Line,
		Column:   pp.Column,
	}
}

func (t *translator) extent(start, end token.Pos) cursor.Extent {
	return cursor.Extent{Start: t.position(start), End: t.position(end)}
}

func (t *translator) fileExtent(f *ast.File) cursor.Extent {
	tf := t.fset.File(f.Pos())
	return t.extent(tf.Pos(0), tf.Pos(tf.Size()))
}

// resultType spells the results of a function: "" for none, "T" for a
// single unnamed result and "(T1, T2)" otherwise.
func resultType(results *ast.FieldList) string {
	if results == nil || len(results.List) == 0 {
		return ""
	}
	var parts []string
	for _, f := range results.List {
		typ := types.ExprString(f.Type)
		for range max(len(f.Names), 1) {
			parts = append(parts, typ)
		}
	}
	if len(parts) == 1 && len(results.List[0].Names) == 0 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// inferType spells the type of an expression when it is evident from the
// syntax alone.
func inferType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT:
			return "int"
		case token.FLOAT:
			return "float64"
		case token.IMAG:
			return "complex128"
		case token.CHAR:
			return "rune"
		case token.STRING:
			return "string"
		}
	case *ast.CompositeLit:
		if e.Type != nil {
			return types.ExprString(e.Type)
		}
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			if lit, ok := e.X.(*ast.CompositeLit); ok && lit.Type != nil {
				return "*" + types.ExprString(lit.Type)
			}
		}
	case *ast.FuncLit:
		return types.ExprString(e.Type)
	case *ast.ParenExpr:
		return inferType(e.X)
	case *ast.CallExpr:
		if id, ok := e.Fun.(*ast.Ident); ok && len(e.Args) > 0 {
			switch id.Name {
			case "new":
				return "*" + types.ExprString(e.Args[0])
			case "make":
				return types.ExprString(e.Args[0])
			}
		}
	}
	return ""
}

// isStructLit reports whether lit may be a struct literal. Named types are
// assumed to be structs; map, slice and array literals are not.
func isStructLit(lit *ast.CompositeLit) bool {
	switch lit.Type.(type) {
	case *ast.MapType, *ast.ArrayType:
		return false
	}
	return true
}

func calleeName(fun ast.Expr) string {
	switch f := astutil.Unparen(fun).(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	}
	return ""
}

func receiverName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	return embeddedName(recv.List[0].Type)
}

// embeddedName returns the type name of an embedded field or receiver:
// "T" for "*pkg.T[K]".
func embeddedName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.ParenExpr:
		return embeddedName(e.X)
	}
	return types.ExprString(e)
}
