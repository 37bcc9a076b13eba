package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/sas/internal"
	"github.com/gnoswap-labs/sas/internal/cursor"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the node tree that queries are matched against",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return dumpFile(ctx, cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func dumpFile(ctx context.Context, w io.Writer, filename string) error {
	unit, err := internal.DefaultRegistry(logger, false).Load(ctx, filename)
	if err != nil {
		return err
	}
	for _, d := range unit.Diagnostics {
		fmt.Fprintf(w, "# %s\n", d)
	}
	return cursor.Dump(w, unit.Root)
}
