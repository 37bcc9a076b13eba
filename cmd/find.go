package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/formatter"
	"github.com/gnoswap-labs/sas/internal"
	tt "github.com/gnoswap-labs/sas/internal/types"
	"github.com/gnoswap-labs/sas/query"
	"github.com/gnoswap-labs/sas/search"
)

// ErrMatchesFound is returned with --fail-on-match when anything matched.
var ErrMatchesFound = errors.New("matches found")

var (
	queryTexts    []string
	ignoreQueries string
	jsonOutput    bool
	outPath       string
	watchMode     bool
	failOnMatch   bool
)

var findCmd = &cobra.Command{
	Use:   "find [paths...]",
	Short: "Search files for the given query or the configured queries",
	Example: `  sas find -q 'size:int()' src/
  sas find -q 'ui::Widget::resize:(...)' --mode all widget.cpp
  sas find --config .sas.yaml --json -o matches.json .`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide file or directory paths")
		}

		config, err := findConfig()
		if err != nil {
			return err
		}

		if watchMode {
			return runWatch(cmd.Context(), logger, config, args, cmd.OutOrStdout())
		}

		engine, err := search.New(config, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize search engine: %w", err)
		}
		applyIgnoredQueries(engine, ignoreQueries)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return runFind(ctx, logger, engine, args, cmd.OutOrStdout())
	},
}

func init() {
	findCmd.Flags().StringArrayVarP(&queryTexts, "query", "q", nil, "Query to search for (repeatable); overrides the configured queries")
	findCmd.Flags().StringSlice("mode", nil, "Match modes: declaration, expression or all")
	findCmd.Flags().Bool("strict", false, "Fail on files with syntax errors")
	findCmd.Flags().StringSlice("ignore-paths", nil, "Comma-separated list of paths to ignore")
	findCmd.Flags().StringVar(&ignoreQueries, "ignore", "", "Comma-separated list of configured queries to skip")
	findCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output matches in JSON format")
	findCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	findCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Search again whenever a file changes")
	findCmd.Flags().BoolVar(&failOnMatch, "fail-on-match", false, "Exit with an error when anything matches")
}

// findConfig builds the search configuration from --query, or from the
// configuration file, with flag and environment settings applied on top.
func findConfig() (search.Config, error) {
	var config search.Config
	if len(queryTexts) > 0 {
		config = search.Config{Name: "sas", Queries: make(map[string]query.Spec, len(queryTexts))}
		for _, text := range queryTexts {
			config.Queries[text] = query.Spec{Query: text}
		}
	} else {
		loaded, err := search.LoadConfig(configPath())
		if errors.Is(err, os.ErrNotExist) {
			return search.Config{}, fmt.Errorf("no queries: pass --query or create %s with 'sas init'", configPath())
		}
		if err != nil {
			return search.Config{}, err
		}
		config = loaded
	}

	if settings.IsSet("mode") {
		config.Mode = settings.GetStringSlice("mode")
	}
	if settings.IsSet("strict") {
		config.Strict = settings.GetBool("strict")
	}
	if settings.IsSet("ignore_paths") {
		config.IgnorePaths = append(config.IgnorePaths, settings.GetStringSlice("ignore_paths")...)
	}
	return config, nil
}

func applyIgnoredQueries(engine search.SearchEngine, names string) {
	if names == "" {
		return
	}
	for _, name := range strings.Split(names, ",") {
		engine.IgnoreQuery(strings.TrimSpace(name))
	}
}

func runFind(ctx context.Context, logger *zap.Logger, engine search.SearchEngine, paths []string, out io.Writer) error {
	matches, err := search.ProcessFiles(ctx, logger, engine, paths, search.ProcessFile)
	if perr := printMatches(logger, out, matches, jsonOutput, outPath); perr != nil {
		return perr
	}
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}
	if failOnMatch && len(matches) > 0 {
		return fmt.Errorf("%w: %d", ErrMatchesFound, len(matches))
	}
	return nil
}

func runWatch(ctx context.Context, logger *zap.Logger, config search.Config, paths []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	engine, err := search.New(config, logger,
		internal.WithWatchDirs(watchDirs(paths)...),
		internal.WithMatchHandler(func(filename string, matches []tt.Match) {
			if err := printMatches(logger, out, matches, jsonOutput, ""); err != nil {
				logger.Error("Error printing matches", zap.String("file", filename), zap.Error(err))
			}
		}))
	if err != nil {
		return fmt.Errorf("failed to initialize search engine: %w", err)
	}
	applyIgnoredQueries(engine, ignoreQueries)

	if err := engine.StartWatching(ctx); err != nil {
		return err
	}
	logger.Info("Watching for changes", zap.Strings("paths", paths))
	<-ctx.Done()

	if err := engine.StopWatching(); err != nil && !errors.Is(err, internal.ErrNotWatching) {
		return err
	}
	return nil
}

// watchDirs maps each path to the directory to watch for it.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func printMatches(logger *zap.Logger, out io.Writer, matches []tt.Match, isJson bool, jsonOutput string) error {
	if isJson {
		if jsonOutput == "" {
			return formatter.FormatJSON(out, matches)
		}
		f, err := os.Create(jsonOutput)
		if err != nil {
			return fmt.Errorf("error creating JSON output file: %w", err)
		}
		defer f.Close()
		return formatter.FormatJSON(f, matches)
	}

	files, byFile := formatter.GroupByFile(matches)
	for _, filename := range files {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprint(out, formatter.GenerateFormattedMatch(byFile[filename], sourceCode))
	}
	return nil
}
