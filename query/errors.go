package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotExpressible is returned by Format for patterns that have no text
// form, such as classes, searches and patterns with nested contents.
var ErrNotExpressible = errors.New("pattern has no query text form")

// SyntaxError reports a query that does not conform to the grammar.
type SyntaxError struct {
	Offset   int         // byte offset of the offending token
	Found    Token       // the offending token
	Expected []TokenType // token types that would have been accepted
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "syntax error at offset %d: unexpected %s", e.Offset, e.Found)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			names[i] = t.String()
		}
		fmt.Fprintf(&sb, ", expected %s", strings.Join(names, " or "))
	}
	return sb.String()
}

// RegexError reports a pattern slot holding an invalid regular expression.
type RegexError struct {
	Expr string
	Err  error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Expr, e.Err)
}

func (e *RegexError) Unwrap() error { return e.Err }
