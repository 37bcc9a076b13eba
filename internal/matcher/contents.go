package matcher

import (
	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/query"
)

// Satisfied reports whether every pattern in contents has at least one
// match inside node, resolving each pattern's qualifiers relative to node.
// It stops at the first unsatisfied pattern, and each nested search stops
// at its first match.
func Satisfied(node cursor.Cursor, contents []query.Pattern, mode Mode) bool {
	for _, c := range contents {
		if !hasMatch(c, node, mode) {
			return false
		}
	}
	return true
}

func hasMatch(p query.Pattern, root cursor.Cursor, mode Mode) bool {
	for range Match(p, ResolveScope(p.Scope(), root), mode) {
		return true
	}
	return false
}
