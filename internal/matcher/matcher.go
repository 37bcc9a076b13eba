// Package matcher finds the nodes of a syntax tree that satisfy a pattern.
package matcher

import (
	"iter"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/query"
)

// Span is the source range of a match. End is exclusive.
type Span struct {
	Start cursor.Position
	End   cursor.Position
}

// Find yields every node of unit accepted by p under mode, in traversal
// order. The sequence is lazy; breaking out of the loop stops the search.
func Find(p query.Pattern, unit *cursor.TranslationUnit, mode Mode) iter.Seq[cursor.Cursor] {
	return Match(p, ResolveScope(p.Scope(), unit.Root), mode)
}

// FindMatches is like Find but yields the source span of each match.
func FindMatches(p query.Pattern, unit *cursor.TranslationUnit, mode Mode) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for c := range Find(p, unit, mode) {
			if !yield(Span(c.Extent())) {
				return
			}
		}
	}
}

// Matcher binds a mode and a logger for repeated searches.
type Matcher struct {
	mode   Mode
	logger *zap.Logger
}

// New creates a Matcher. A nil logger disables logging. A mode without
// any flag is accepted but logged, since it never matches anything.
func New(mode Mode, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode&All == None {
		logger.Warn("match mode has neither declaration nor expression enabled; no pattern can match",
			zap.Stringer("mode", mode))
	}
	return &Matcher{mode: mode, logger: logger}
}

func (m *Matcher) Mode() Mode { return m.mode }

// Find yields the matching cursors of unit.
func (m *Matcher) Find(p query.Pattern, unit *cursor.TranslationUnit) iter.Seq[cursor.Cursor] {
	m.logger.Debug("searching",
		zap.String("file", unit.Filename),
		zap.Stringer("pattern", p),
		zap.Stringer("mode", m.mode))
	return Find(p, unit, m.mode)
}

// FindMatches yields the spans of the matching cursors of unit.
func (m *Matcher) FindMatches(p query.Pattern, unit *cursor.TranslationUnit) iter.Seq[Span] {
	return FindMatches(p, unit, m.mode)
}
