package internal

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/sas/internal/backend"
	"github.com/gnoswap-labs/sas/internal/backend/cpp"
	"github.com/gnoswap-labs/sas/internal/backend/golang"
	"github.com/gnoswap-labs/sas/internal/cursor"
	"github.com/gnoswap-labs/sas/internal/matcher"
	"github.com/gnoswap-labs/sas/internal/suppress"
	tt "github.com/gnoswap-labs/sas/internal/types"
	"github.com/gnoswap-labs/sas/query"
)

// ErrNoQueries is returned when an engine is created without queries.
var ErrNoQueries = errors.New("no queries configured")

// Query is a named, compiled pattern.
type Query struct {
	Name    string
	Pattern query.Pattern
	Text    string // query syntax of Pattern, reported with each match
}

// queryText renders p in query syntax. Patterns with no text form, such as
// those with nested contents, fall back to their debug form.
func queryText(p query.Pattern) string {
	if text, err := query.Format(p); err == nil {
		return text
	}
	return p.String()
}

// Engine runs a set of named queries over source files.
type Engine struct {
	queries        map[string]*Query
	ignoredQueries map[string]bool
	ignoredPaths   []string

	registry *backend.Registry
	matcher  *matcher.Matcher
	logger   *zap.Logger

	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
	onMatches  func(filename string, matches []tt.Match)
	stop       chan struct{}
	done       chan struct{}
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	mode      matcher.Mode
	strict    bool
	logger    *zap.Logger
	registry  *backend.Registry
	watchDirs []string
	onMatches func(string, []tt.Match)
}

// WithMode sets the match mode. The default is matcher.Declaration.
func WithMode(mode matcher.Mode) Option { return func(o *engineOptions) { o.mode = mode } }

// WithStrict rejects sources with syntax errors instead of searching the
// recovered tree. It has no effect together with WithRegistry.
func WithStrict(strict bool) Option { return func(o *engineOptions) { o.strict = strict } }

func WithLogger(logger *zap.Logger) Option { return func(o *engineOptions) { o.logger = logger } }

func WithRegistry(r *backend.Registry) Option { return func(o *engineOptions) { o.registry = r } }

// WithWatchDirs sets the directories observed by StartWatching.
func WithWatchDirs(dirs ...string) Option {
	return func(o *engineOptions) { o.watchDirs = append(o.watchDirs, dirs...) }
}

// WithMatchHandler sets the callback receiving the matches of files
// re-searched in watch mode. Without one, matches are logged.
func WithMatchHandler(fn func(filename string, matches []tt.Match)) Option {
	return func(o *engineOptions) { o.onMatches = fn }
}

// DefaultRegistry returns a registry with the C++ and Go backends.
func DefaultRegistry(logger *zap.Logger, strict bool) *backend.Registry {
	return backend.NewRegistry(cpp.New(logger, strict), golang.New(logger))
}

// NewEngine creates an engine running the given queries.
func NewEngine(queries map[string]query.Pattern, opts ...Option) (*Engine, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	o := engineOptions{mode: matcher.Declaration}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.registry == nil {
		o.registry = DefaultRegistry(o.logger, o.strict)
	}

	e := &Engine{
		queries:        make(map[string]*Query, len(queries)),
		ignoredQueries: make(map[string]bool),
		registry:       o.registry,
		matcher:        matcher.New(o.mode, o.logger),
		logger:         o.logger,
		watchDirs:      o.watchDirs,
		onMatches:      o.onMatches,
	}
	for name, p := range queries {
		if p == nil {
			return nil, fmt.Errorf("query %q: nil pattern", name)
		}
		e.queries[name] = &Query{Name: name, Pattern: p, Text: queryText(p)}
	}
	return e, nil
}

// Mode returns the match mode of the engine.
func (e *Engine) Mode() matcher.Mode { return e.matcher.Mode() }

// Registry returns the backends used to parse files.
func (e *Engine) Registry() *backend.Registry { return e.registry }

// Queries returns the names of all queries, sorted.
func (e *Engine) Queries() []string {
	names := make([]string, 0, len(e.queries))
	for name := range e.queries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (e *Engine) findQuery(name string) *Query {
	if q, ok := e.queries[name]; ok {
		return q
	}
	return nil
}

// IgnoreQuery disables the named query.
func (e *Engine) IgnoreQuery(name string) {
	if e.findQuery(name) == nil {
		e.logger.Warn("ignoring unknown query", zap.String("query", name))
	}
	e.ignoredQueries[name] = true
}

// IgnorePath skips files matching path, either a directory prefix or a
// glob pattern.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isIgnoredPath(filename string) bool {
	clean := filepath.Clean(filename)
	for _, p := range e.ignoredPaths {
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
		if ok, _ := filepath.Match(p, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(clean)); ok {
			return true
		}
	}
	return false
}

func (e *Engine) activeQueries() []*Query {
	active := make([]*Query, 0, len(e.queries))
	for _, name := range e.Queries() {
		if !e.ignoredQueries[name] {
			active = append(active, e.queries[name])
		}
	}
	return active
}

// Run searches the given file with every active query.
func (e *Engine) Run(ctx context.Context, filename string) ([]tt.Match, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}
	unit, err := e.registry.Load(ctx, filename)
	if err != nil {
		return nil, err
	}
	return e.search(ctx, unit)
}

// RunSource searches an in-memory source. The backend is chosen from the
// extension of filename.
func (e *Engine) RunSource(ctx context.Context, filename string, source []byte) ([]tt.Match, error) {
	unit, err := e.registry.Parse(ctx, filename, source)
	if err != nil {
		return nil, err
	}
	return e.search(ctx, unit)
}

// search runs the active queries concurrently over one translation unit.
// The tree is read-only at this point, so queries share it.
func (e *Engine) search(ctx context.Context, unit *cursor.TranslationUnit) ([]tt.Match, error) {
	var (
		mu         sync.Mutex
		allMatches []tt.Match
	)
	suppressed := suppress.Parse(unit)
	g, ctx := errgroup.WithContext(ctx)
	for _, q := range e.activeQueries() {
		g.Go(func() error {
			var found []tt.Match
			for c := range e.matcher.Find(q.Pattern, unit) {
				if err := ctx.Err(); err != nil {
					return err
				}
				if suppressed.IsSuppressed(c.Extent().Start.Line, q.Name) {
					continue
				}
				found = append(found, newMatch(q, unit.Filename, c))
			}

			mu.Lock()
			allMatches = append(allMatches, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortMatches(allMatches)
	e.logger.Debug("searched file",
		zap.String("file", unit.Filename),
		zap.Int("matches", len(allMatches)))
	return allMatches, nil
}

func newMatch(q *Query, filename string, c cursor.Cursor) tt.Match {
	ext := c.Extent()
	return tt.Match{
		Query:    q.Name,
		Pattern:  q.Text,
		Filename: filename,
		Kind:     c.Kind().String(),
		Spelling: c.Spelling(),
		Type:     c.Type(),
		Start:    toPosition(ext.Start),
		End:      toPosition(ext.End),
	}
}

func toPosition(p cursor.Position) token.Position {
	return token.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// SortMatches orders matches by file, position and query name.
func SortMatches(matches []tt.Match) {
	slices.SortStableFunc(matches, func(a, b tt.Match) int {
		if c := strings.Compare(a.Filename, b.Filename); c != 0 {
			return c
		}
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset - b.Start.Offset
		}
		if a.End.Offset != b.End.Offset {
			return a.End.Offset - b.End.Offset
		}
		return strings.Compare(a.Query, b.Query)
	})
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}
