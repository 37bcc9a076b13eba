package formatter

// ExpressionMatchFormatter lays out calls and references, naming the
// referenced entity rather than the node.
type ExpressionMatchFormatter struct{}

func (f *ExpressionMatchFormatter) MatchTemplate() string {
	return `{{header .Query .Pattern .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underline .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{.Padding}}= {{if eq .Kind "CALL_EXPR"}}call to{{else}}reference to{{end}} {{kind .Kind .Spelling .Type}}

`
}
