package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/sas/search"
)

var forceInit bool

// initCmd: sas init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new search configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := initConfigurationFile(path, forceInit); err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if !force {
		if _, err := os.Stat(configurationPath); err == nil {
			return fmt.Errorf("%s already exists", configurationPath)
		}
	}

	d, err := search.DefaultConfig().Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(configurationPath, d, 0o644)
}
