package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/sas/internal/cursor"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the node kinds reported in matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listKinds(cmd.OutOrStdout())
	},
}

func listKinds(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tMODE")
	for _, k := range cursor.Kinds() {
		mode := "-"
		switch {
		case k.IsDeclaration():
			mode = "declaration"
		case k.IsExpression():
			mode = "expression"
		}
		fmt.Fprintf(tw, "%s\t%s\n", k, mode)
	}
	return tw.Flush()
}
