package formatter

type GeneralMatchFormatter struct{}

func (f *GeneralMatchFormatter) MatchTemplate() string {
	return `{{header .Query .Pattern .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underline .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{.Padding}}= {{kind .Kind .Spelling .Type}}{{span .StartLine .EndLine}}

`
}
