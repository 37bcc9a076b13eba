package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/sas/internal"
	tt "github.com/gnoswap-labs/sas/internal/types"
)

const tabWidth = 8

// cursor kinds with a dedicated layout
const (
	CallExpr      = "CALL_EXPR"
	DeclRefExpr   = "DECL_REF_EXPR"
	MemberRefExpr = "MEMBER_REF_EXPR"
)

var (
	queryStyle   = color.New(color.FgYellow, color.Bold)
	headerStyle  = color.New(color.FgGreen, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	kindStyle    = color.New(color.FgMagenta, color.Bold)
	markStyle    = color.New(color.FgGreen, color.Bold)
	spanStyle    = color.New(color.FgHiBlack)
	patternStyle = color.New(color.FgWhite)
)

// matchFormatter is the interface that wraps the MatchTemplate method.
// Implementations decide how the footer of a match is laid out.
type matchFormatter interface {
	MatchTemplate() string
}

// getMatchFormatter returns the formatter for a cursor kind, falling back
// to GeneralMatchFormatter.
func getMatchFormatter(kind string) matchFormatter {
	switch kind {
	case CallExpr, DeclRefExpr, MemberRefExpr:
		return &ExpressionMatchFormatter{}
	default:
		return &GeneralMatchFormatter{}
	}
}

// GenerateFormattedMatch formats matches found in one file into a
// human-readable string.
func GenerateFormattedMatch(matches []tt.Match, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, match := range matches {
		formatter := getMatchFormatter(match.Kind)
		builder.WriteString(buildMatch(match, snippet, formatter))
	}
	return builder.String()
}

/***** Match Formatter Builder *****/

type MatchData struct {
	Query           string
	Pattern         string
	Filename        string
	Kind            string
	Spelling        string
	Type            string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	SnippetLines    []string
	CommonIndent    string
}

func buildMatch(match tt.Match, snippet *internal.SourceCode, formatter matchFormatter) string {
	startLine := match.Start.Line
	endLine := match.End.Line
	maxLineNumWidth := calculateMaxLineNumWidth(startLine)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var commonIndent string
	if startLine > 0 && startLine <= len(snippet.Lines) {
		commonIndent = findCommonIndent(snippet.Lines[startLine-1 : startLine])
	}

	data := MatchData{
		Query:           match.Query,
		Pattern:         match.Pattern,
		Filename:        match.Filename,
		Kind:            match.Kind,
		Spelling:        match.Spelling,
		Type:            match.Type,
		StartLine:       startLine,
		StartColumn:     match.Start.Column,
		EndLine:         endLine,
		EndColumn:       match.End.Column,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		CommonIndent:    commonIndent,
		SnippetLines:    snippet.Lines,
	}

	funcMap := template.FuncMap{
		"header":    header,
		"snippet":   codeSnippet,
		"underline": underline,
		"kind":      kind,
		"span":      span,
	}

	tmpl := template.Must(template.New("match").Funcs(funcMap).Parse(formatter.MatchTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting match: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(query, pattern string, maxLineNumWidth int, filename string, startLine, startColumn int) string {
	endString := headerStyle.Sprint("match: ")
	endString += queryStyle.Sprint(query)
	if pattern != "" {
		endString += patternStyle.Sprintf(" (%s)", pattern)
	}
	endString += "\n"

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d\n", filename, startLine, startColumn)
	return endString
}

// codeSnippet prints the first line of the match. Multi-line matches are
// summarized by span in the footer.
func codeSnippet(snippetLines []string, startLine int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	if startLine <= 0 || startLine > len(snippetLines) {
		return endString
	}

	line := strings.TrimPrefix(snippetLines[startLine-1], commonIndent)
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, startLine)
	endString += lineStyle.Sprintf("%s | ", lineNum) + line + "\n"
	return endString
}

// underline marks the matched columns of the first line. A match that
// continues on later lines is underlined to the end of its first line.
func underline(padding string, startLine, endLine, startColumn, endColumn int, snippetLines []string, commonIndent string) string {
	endString := lineStyle.Sprintf("%s| ", padding)
	if startLine <= 0 || startLine > len(snippetLines) {
		return endString + "\n"
	}

	line := snippetLines[startLine-1]
	commonIndentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

	start := calculateVisualColumn(line, startColumn) - commonIndentWidth
	if start < 0 {
		start = 0
	}

	var end int
	if endLine > startLine {
		end = calculateVisualColumn(line, len(line)+1)
	} else {
		end = calculateVisualColumn(line, endColumn)
	}
	end -= commonIndentWidth

	length := end - start
	if length < 1 {
		length = 1
	}

	endString += strings.Repeat(" ", start)
	endString += markStyle.Sprintf("%s\n", strings.Repeat("~", length))
	return endString
}

// kind renders the "KIND spelling: type" summary.
func kind(kind, spelling, typ string) string {
	endString := kindStyle.Sprint(kind)
	if spelling != "" {
		endString += " " + spelling
	}
	if typ != "" {
		endString += ": " + typ
	}
	return endString
}

func span(startLine, endLine int) string {
	if endLine <= startLine {
		return ""
	}
	return spanStyle.Sprintf(" (lines %d-%d)", startLine, endLine)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	firstIndent := make([]rune, 0)
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		currentIndent := []rune(line[:len(line)-len(trimmed)])
		firstIndent = commonPrefix(firstIndent, currentIndent)

		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
