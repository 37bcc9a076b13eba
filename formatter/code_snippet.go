package formatter

import (
	"strings"

	"github.com/gnoswap-labs/sas/internal"
	tt "github.com/gnoswap-labs/sas/internal/types"
)

// GetCodeSnippet returns the source lines spanned by match.
func GetCodeSnippet(match tt.Match, snippet *internal.SourceCode) string {
	startLine := max(match.Start.Line-1, 0)
	endLine := min(match.End.Line, len(snippet.Lines))
	if startLine >= endLine {
		return ""
	}
	return strings.Join(snippet.Lines[startLine:endLine], "\n")
}
