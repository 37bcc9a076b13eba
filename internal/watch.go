package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/sas/internal/backend"
	tt "github.com/gnoswap-labs/sas/internal/types"
	"github.com/gnoswap-labs/sas/scanner"
)

// settleDelay lets a burst of writes to one file finish before it is
// searched again.
const settleDelay = 100 * time.Millisecond

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

// StartWatching searches files again whenever they are written, until ctx
// is done or StopWatching is called.
func (e *Engine) StartWatching(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range e.watchDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if path != dir && scanner.SkippedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.isWatching = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.watchLoop(ctx, watcher, e.stop, e.done)
	return nil
}

// StopWatching stops the watch loop and waits for it to exit.
func (e *Engine) StopWatching() error {
	e.mu.Lock()
	if !e.isWatching {
		e.mu.Unlock()
		return ErrNotWatching
	}
	e.isWatching = false
	close(e.stop)
	done := e.done
	err := e.watcher.Close()
	e.mu.Unlock()

	<-done
	return err
}

// IsWatching reports whether the watch loop is running.
func (e *Engine) IsWatching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isWatching
}

func (e *Engine) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(ctx, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				e.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !e.registry.Supports(event.Name) || e.isIgnoredPath(event.Name) {
		return
	}

	time.Sleep(settleDelay)
	matches, err := e.Run(ctx, event.Name)
	if err != nil {
		var syntaxErr *backend.SyntaxError
		if errors.As(err, &syntaxErr) {
			e.logger.Warn("skipping file with syntax errors", zap.String("file", event.Name), zap.Error(err))
			return
		}
		e.logger.Error("error searching file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.reportMatches(event.Name, matches)
}

func (e *Engine) reportMatches(filename string, matches []tt.Match) {
	if e.onMatches != nil {
		e.onMatches(filename, matches)
		return
	}
	if len(matches) == 0 {
		e.logger.Info("no matches", zap.String("file", filename))
		return
	}

	e.logger.Info("found matches", zap.String("file", filename), zap.Int("matches", len(matches)))
	for _, m := range matches {
		e.logger.Info("match",
			zap.String("query", m.Query),
			zap.String("kind", m.Kind),
			zap.String("spelling", m.Spelling),
			zap.String("position", m.Start.String()))
	}
}
