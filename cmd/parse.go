package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/sas/query"
)

var parseCmd = &cobra.Command{
	Use:   "parse <query>...",
	Short: "Check queries and print the pattern each one compiles to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed bool
		for _, text := range args {
			if err := describeQuery(cmd.OutOrStdout(), text); err != nil {
				failed = true
			}
		}
		if failed {
			return errors.New("invalid query")
		}
		return nil
	},
}

// describeQuery prints the compiled pattern of text and its canonical
// query form, or the error with a caret under the offending token.
func describeQuery(w io.Writer, text string) error {
	pattern, err := query.Compile(text)
	if err != nil {
		fmt.Fprintf(w, "%s\n", text)
		var syntaxErr *query.SyntaxError
		if errors.As(err, &syntaxErr) {
			fmt.Fprintf(w, "%s^\n", strings.Repeat(" ", syntaxErr.Offset))
		}
		fmt.Fprintf(w, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(w, "%s\n", text)
	fmt.Fprintf(w, "  pattern:   %s\n", pattern)
	if canonical, err := query.Format(pattern); err == nil {
		fmt.Fprintf(w, "  canonical: %s\n", canonical)
	}
	return nil
}
