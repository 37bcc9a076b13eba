// Package search runs sas queries over files and directories.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/sas/internal"
	"github.com/gnoswap-labs/sas/internal/backend"
	tt "github.com/gnoswap-labs/sas/internal/types"
	"github.com/gnoswap-labs/sas/scanner"
)

// ProgressOutput receives the progress bar drawn while a directory is
// searched.
var ProgressOutput io.Writer = os.Stderr

type SearchEngine interface {
	Run(ctx context.Context, filename string) ([]tt.Match, error)
	RunSource(ctx context.Context, filename string, source []byte) ([]tt.Match, error)
	IgnoreQuery(name string)
	IgnorePath(path string)
}

// Source is an in-memory file.
type Source struct {
	Filename string
	Content  []byte
}

// Processor searches one file.
type Processor func(ctx context.Context, engine SearchEngine, path string) ([]tt.Match, error)

// New creates an engine from a configuration.
func New(config Config, logger *zap.Logger, opts ...internal.Option) (*internal.Engine, error) {
	queries, err := config.Compile()
	if err != nil {
		return nil, err
	}
	mode, err := config.MatchMode()
	if err != nil {
		return nil, err
	}

	base := []internal.Option{
		internal.WithMode(mode),
		internal.WithStrict(config.Strict),
		internal.WithLogger(logger),
	}

	engine, err := internal.NewEngine(queries, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, p := range config.IgnorePaths {
		engine.IgnorePath(p)
	}
	return engine, nil
}

// NewFromFile creates an engine from a configuration file.
func NewFromFile(configurationPath string, logger *zap.Logger, opts ...internal.Option) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return New(config, logger, opts...)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine SearchEngine,
	sources []Source,
) ([]tt.Match, error) {
	var allMatches []tt.Match
	for _, source := range sources {
		matches, err := ProcessSource(ctx, engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.String("source", source.Filename), zap.Error(err))
			}
			return nil, err
		}
		allMatches = append(allMatches, matches...)
	}

	return allMatches, nil
}

// ProcessFiles searches every path. A failing path does not stop the
// others; the matches found are returned together with the errors.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine SearchEngine,
	paths []string,
	processor Processor,
) ([]tt.Match, error) {
	allMatches := []tt.Match{}
	var errs []error
	for _, path := range paths {
		matches, err := ProcessPath(ctx, logger, engine, path, processor)
		allMatches = append(allMatches, matches...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return allMatches, ctxErr
			}
			errs = append(errs, err)
		}
	}

	internal.SortMatches(allMatches)
	return allMatches, errors.Join(errs...)
}

// ProcessPath searches a file, or every supported file below a directory.
// Directories are searched concurrently with at most runtime.NumCPU()
// files in flight. Files in languages no backend supports are skipped.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine SearchEngine,
	path string,
	processor Processor,
) ([]tt.Match, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	registry := registryOf(engine)
	if !info.IsDir() {
		if !registry.Supports(path) {
			logger.Warn("Skipping file in unsupported language", zap.String("file", path))
			return []tt.Match{}, nil
		}
		matches, err := processor(ctx, engine, path)
		if err != nil {
			return []tt.Match{}, err
		}
		return matches, nil
	}

	files, err := scanner.New(path, registry.Extensions()...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	defer bar.Finish()

	var (
		mu      sync.Mutex
		matches = []tt.Match{}
		errs    []error
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fileMatches, err := processor(ctx, engine, file.Path)
			_ = bar.Add(1)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var syntaxErr *backend.SyntaxError
				switch {
				case errors.Is(err, backend.ErrUnsupportedLanguage):
					logger.Debug("Skipping file", zap.String("file", file.Path), zap.Error(err))
				case errors.As(err, &syntaxErr):
					logger.Warn("Skipping file with syntax errors", zap.String("file", file.Path), zap.Error(err))
					errs = append(errs, err)
				default:
					logger.Error("Error processing file", zap.String("file", file.Path), zap.Error(err))
					errs = append(errs, err)
				}
				return nil
			}
			matches = append(matches, fileMatches...)
			return nil
		})
	}
	_ = g.Wait()

	internal.SortMatches(matches)
	if err := ctx.Err(); err != nil {
		return matches, err
	}
	return matches, errors.Join(errs...)
}

func ProcessFile(ctx context.Context, engine SearchEngine, filePath string) ([]tt.Match, error) {
	return engine.Run(ctx, filePath)
}

func ProcessSource(ctx context.Context, engine SearchEngine, source Source) ([]tt.Match, error) {
	return engine.RunSource(ctx, source.Filename, source.Content)
}

// registryOf returns the backends of engine, or the default backends for
// engines that do not expose theirs.
func registryOf(engine SearchEngine) *backend.Registry {
	if e, ok := engine.(interface{ Registry() *backend.Registry }); ok {
		return e.Registry()
	}
	return internal.DefaultRegistry(nil, false)
}
