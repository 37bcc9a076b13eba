package matcher

import (
	"iter"

	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/query"
)

// ResolveScope yields the candidate nodes for a pattern with the given
// qualifiers, searched below root:
//
//   - top-level: the direct children of root
//   - anywhere: every descendant of root in pre-order
//   - a chain q0::q1::...::qn: the direct children of every scope reached
//     by descending from root through classes, structs and namespaces
//     whose names match each qualifier in turn
func ResolveScope(q query.Qualifiers, root cursor.Cursor) iter.Seq[cursor.Cursor] {
	switch {
	case q.IsTopLevel():
		return cursor.TopLevel(root)
	case q.IsAnywhere():
		return cursor.Descendants(root)
	}
	return func(yield func(cursor.Cursor) bool) {
		resolveChain(q, 0, root, yield)
	}
}

// resolveChain looks for qualifier i among the direct children of scope.
func resolveChain(q query.Qualifiers, i int, scope cursor.Cursor, yield func(cursor.Cursor) bool) bool {
	if i == q.Len() {
		for child := range scope.Children() {
			if !yield(child) {
				return false
			}
		}
		return true
	}
	name := q.At(i)
	for child := range scope.Children() {
		if !scopeKinds.has(child.Kind()) || !name.MatchPrefix(child.Spelling()) {
			continue
		}
		if !resolveChain(q, i+1, child, yield) {
			return false
		}
	}
	return true
}
