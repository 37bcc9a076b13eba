package formatter

import (
	"encoding/json"
	"io"

	tt "github.com/gnoswap-labs/sas/internal/types"
)

// FormatJSON writes matches as an indented JSON array. A nil slice is
// written as [].
func FormatJSON(w io.Writer, matches []tt.Match) error {
	if matches == nil {
		matches = []tt.Match{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}

// GroupByFile splits matches by filename, keeping the order in which
// files first appear.
func GroupByFile(matches []tt.Match) (files []string, groups map[string][]tt.Match) {
	groups = make(map[string][]tt.Match)
	for _, m := range matches {
		if _, ok := groups[m.Filename]; !ok {
			files = append(files, m.Filename)
		}
		groups[m.Filename] = append(groups[m.Filename], m)
	}
	return files, groups
}
