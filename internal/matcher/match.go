package matcher

import (
	"iter"

	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/query"
)

// Match yields the candidates accepted by p under mode. Candidates must
// also satisfy the nested contents of p.
func Match(p query.Pattern, candidates iter.Seq[cursor.Cursor], mode Mode) iter.Seq[cursor.Cursor] {
	kinds := eligible(p, mode)
	nested := p.Nested()
	return func(yield func(cursor.Cursor) bool) {
		if kinds != nil && len(kinds) == 0 {
			return
		}
		for c := range candidates {
			if kinds != nil && !kinds.has(c.Kind()) {
				continue
			}
			if !matchNode(p, c) || !Satisfied(c, nested, mode) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Matches reports whether c alone is accepted by p under mode, without
// looking at nested contents.
func Matches(p query.Pattern, c cursor.Cursor, mode Mode) bool {
	kinds := eligible(p, mode)
	if kinds != nil && !kinds.has(c.Kind()) {
		return false
	}
	return matchNode(p, c)
}

// matchNode checks the name, type and signature slots of p against c.
func matchNode(p query.Pattern, c cursor.Cursor) bool {
	switch p := p.(type) {
	case *query.Function:
		return p.Name.MatchPrefix(c.Spelling()) &&
			p.ReturnType.MatchPrefix(c.ResultType()) &&
			matchParams(p.Params, c.Arguments())
	case *query.Variable:
		return p.Name.MatchPrefix(c.Spelling()) && p.Type.MatchPrefix(c.Type())
	case *query.Class:
		return p.Name.MatchPrefix(c.Spelling())
	case *query.Search:
		return p.Search.MatchPrefix(c.Spelling())
	}
	return false
}
