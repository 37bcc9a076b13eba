package matcher

import (
	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/query"
)

// matchParams matches a parameter pattern list against actual arguments.
// A variable consumes exactly one argument; an ellipsis consumes any number,
// including zero. Every argument must be consumed.
//
// A variable only matches a PARM_DECL cursor, so a call, whose arguments are
// expressions, matches an empty list or ellipses alone.
func matchParams(params []query.Param, args []cursor.Cursor) bool {
	type state struct{ param, arg int }
	failed := make(map[state]bool)

	var match func(i, j int) bool
	match = func(i, j int) bool {
		if i == len(params) {
			return j == len(args)
		}
		s := state{i, j}
		if failed[s] {
			return false
		}
		switch p := params[i].(type) {
		case query.Ellipsis:
			for k := j; k <= len(args); k++ {
				if match(i+1, k) {
					return true
				}
			}
		case *query.Variable:
			if j < len(args) && matchArgument(p, args[j]) && match(i+1, j+1) {
				return true
			}
		}
		failed[s] = true
		return false
	}
	return match(0, 0)
}

func matchArgument(p *query.Variable, arg cursor.Cursor) bool {
	if arg.Kind() != cursor.KindParmDecl {
		return false
	}
	return p.Name.MatchPrefix(arg.Spelling()) && p.Type.MatchPrefix(arg.Type())
}
