package query

import "regexp"

// Wildcard is the expression used for every omitted slot.
const Wildcard = ".*"

// Regex is a compiled pattern slot. Matching is anchored at the start of the
// subject only, so "get" matches "getValue".
type Regex struct {
	expr string
	re   *regexp.Regexp
}

// CompileRegex compiles expr. An empty expression is treated as Wildcard.
func CompileRegex(expr string) (*Regex, error) {
	if expr == "" {
		expr = Wildcard
	}
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, &RegexError{Expr: expr, Err: err}
	}
	return &Regex{expr: expr, re: re}, nil
}

// MustCompileRegex is like CompileRegex but panics on error.
func MustCompileRegex(expr string) *Regex {
	r, err := CompileRegex(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// MatchPrefix reports whether the expression matches a prefix of s.
// A nil Regex matches everything.
func (r *Regex) MatchPrefix(s string) bool {
	if r == nil {
		return true
	}
	return r.re.MatchString(s)
}

// IsWildcard reports whether r is the default ".*" expression.
func (r *Regex) IsWildcard() bool {
	return r == nil || r.expr == Wildcard
}

func (r *Regex) String() string {
	if r == nil {
		return Wildcard
	}
	return r.expr
}
