// Package sas searches C++ and Go sources for declarations and
// expressions described by short structural queries such as
//
//	A::B::bar:(x:int,...)
//
// which names any method bar of A::B whose first parameter is an int.
//
// For configured sets of named queries over whole trees, use package
// search.
package sas

import (
	"context"
	"iter"
	"os"

	"github.com/gnoswap-labs/sas/internal"
	"github.com/gnoswap-labs/sas/internal/matcher"
	"github.com/gnoswap-labs/sas/query"
)

type (
	Mode = matcher.Mode
	Span = matcher.Span
)

const (
	None        = matcher.None
	Declaration = matcher.Declaration
	Expression  = matcher.Expression
	All         = matcher.All
)

// ParseMode parses mode names such as "declaration", "expression" or
// "all". Names may also be comma-separated.
func ParseMode(names ...string) (Mode, error) {
	return matcher.ParseMode(names...)
}

// Compile compiles query text into a pattern.
func Compile(text string) (query.Pattern, error) {
	return query.Compile(text)
}

// FindMatches parses src with the backend registered for the extension of
// filename and returns the spans matched by p. Syntax errors are tolerated
// where the backend can recover.
func FindMatches(ctx context.Context, p query.Pattern, filename string, src []byte, mode Mode) (iter.Seq[Span], error) {
	unit, err := internal.DefaultRegistry(nil, false).Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	return matcher.FindMatches(p, unit, mode), nil
}

// FindMatchesInFile is like FindMatches but reads the source from filename.
func FindMatchesInFile(ctx context.Context, p query.Pattern, filename string, mode Mode) (iter.Seq[Span], error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FindMatches(ctx, p, filename, src, mode)
}
