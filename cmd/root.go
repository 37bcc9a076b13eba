package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnoswap-labs/sas/search"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration

	settings = viper.New()
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "sas [paths...]",
	Short:            "sas - structural search for C++ and Go sources",
	SilenceUsage:     true,
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(cmd); err != nil {
			return err
		}
		l, err := newLogger(settings.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: sas [path1 path2 ...] => behaves like the find subcommand
		return findCmd.RunE(findCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (default "+search.DefaultConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Abort the search after this duration")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(kindsCmd)
}

// loadSettings layers flags over SAS_* environment variables over the
// configuration file.
func loadSettings(cmd *cobra.Command) error {
	settings.SetDefault("log_level", "warn")
	settings.SetDefault("timeout", defaultTimeout)

	settings.SetEnvPrefix("SAS")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	flags := map[string]string{
		"log_level":    "log-level",
		"timeout":      "timeout",
		"mode":         "mode",
		"strict":       "strict",
		"ignore_paths": "ignore-paths",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := settings.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	settings.SetConfigFile(configPath())
	settings.SetConfigType("yaml")
	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", configPath(), err)
		}
	}

	timeout = settings.GetDuration("timeout")
	return nil
}

// configPath returns the --config value or the default file name.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return search.DefaultConfigFile
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config.Build()
}
