// Package suppress reads "//nosas" comments, which hide matches from
// searches.
//
//	//nosas              hides every query
//	//nosas:sizes,calls  hides the named queries
//
// A comment above the first line of code covers the whole file. A comment
// at the end of a line covers the outermost node starting on that line. A
// comment on a line of its own covers the node starting on the next line.
package suppress

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

const marker = "//nosas"

// Manager records the suppressed line ranges of one file.
type Manager struct {
	scopes []scope
}

// scope is an inclusive range of lines where a comment applies.
type scope struct {
	queries   map[string]struct{}
	startLine int
	endLine   int
}

// Parse collects the suppression comments of unit.
func Parse(unit *cursor.TranslationUnit) *Manager {
	manager := &Manager{}
	if !bytes.Contains(unit.Source, []byte(marker)) {
		return manager
	}

	lines := strings.Split(string(unit.Source), "\n")
	starts := indexNodesByLine(unit.Root)
	firstCode := firstCodeLine(lines)

	for i, text := range lines {
		col := strings.Index(text, marker)
		if col < 0 {
			continue
		}
		queries, err := parseQueryNames(text[col+len(marker):])
		if err != nil {
			// ignore malformed comments
			continue
		}

		line := i + 1
		s := scope{queries: queries, startLine: line, endLine: line}
		switch {
		case line < firstCode:
			s.startLine, s.endLine = 1, len(lines)
		case strings.TrimSpace(text[:col]) != "":
			if n, ok := starts[line]; ok {
				s.endLine = max(line, n.Extent().End.Line)
			}
		default:
			if n, ok := starts[line+1]; ok {
				s.endLine = max(line+1, n.Extent().End.Line)
			}
		}
		manager.scopes = append(manager.scopes, s)
	}
	return manager
}

// parseQueryNames parses what follows the marker: nothing, or a colon and
// a comma-separated list of query names.
func parseQueryNames(rest string) (map[string]struct{}, error) {
	queries := make(map[string]struct{})
	rest = strings.TrimRight(rest, "\r")
	switch {
	case rest == "", rest[0] == ' ', rest[0] == '\t':
		return queries, nil
	case rest[0] != ':':
		return nil, fmt.Errorf("invalid nosas comment format")
	}

	rest = strings.TrimSpace(rest[1:])
	if rest == "" {
		return nil, fmt.Errorf("invalid nosas comment: no queries specified after colon")
	}
	for _, name := range strings.Split(rest, ",") {
		if name = strings.TrimSpace(name); name != "" {
			queries[name] = struct{}{}
		}
	}
	return queries, nil
}

// indexNodesByLine maps each line to the outermost node starting on it.
func indexNodesByLine(root cursor.Cursor) map[int]cursor.Cursor {
	starts := make(map[int]cursor.Cursor)
	cursor.Walk(root, func(c cursor.Cursor, depth int) bool {
		if depth == 0 {
			return true
		}
		line := c.Extent().Start.Line
		if _, exists := starts[line]; !exists {
			starts[line] = c
		}
		return true
	})
	return starts
}

// firstCodeLine returns the first line holding something other than
// blanks and line comments, or len(lines)+1 for a file without code.
func firstCodeLine(lines []string) int {
	for i, text := range lines {
		trimmed := strings.TrimSpace(text)
		if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
			return i + 1
		}
	}
	return len(lines) + 1
}

// IsSuppressed reports whether a match of the named query starting on line
// is hidden by a comment.
func (m *Manager) IsSuppressed(line int, queryName string) bool {
	for _, s := range m.scopes {
		if line < s.startLine || line > s.endLine {
			continue
		}
		// If the query list is empty, the comment applies to every query
		if len(s.queries) == 0 {
			return true
		}
		if _, exists := s.queries[queryName]; exists {
			return true
		}
	}
	return false
}

// Len returns the number of suppression comments.
func (m *Manager) Len() int {
	return len(m.scopes)
}
