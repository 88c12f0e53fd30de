// Package watch triggers processing when input files land in the import directory.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stockcheck-dev/stockcheck/internal/importer"
)

// DefaultSettle is how long a file must stay quiet before it is handed off.
const DefaultSettle = 500 * time.Millisecond

// Handler processes one settled input file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors a directory for new or rewritten inventory files.
type Watcher struct {
	dir    string
	handle Handler
	settle time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New returns a Watcher on dir. A zero settle uses DefaultSettle.
func New(dir string, settle time.Duration, logger *slog.Logger, handle Handler) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		dir:     dir,
		handle:  handle,
		settle:  settle,
		logger:  logger,
		pending: make(map[string]time.Time),
	}
}

// Run blocks until ctx is cancelled. Handler errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching for inventory files", "dir", w.dir)

	tick := time.NewTicker(w.settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && importer.Supported(evt.Name) {
				w.touch(evt.Name, time.Now())
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case now := <-tick.C:
			for _, path := range w.due(now) {
				w.dispatch(ctx, path)
			}
		}
	}
}

func (w *Watcher) touch(path string, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.Clean(path)] = at
}

// due removes and returns paths that have been quiet for the settle period.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	// Renames away from the directory also produce events.
	if _, err := os.Stat(path); err != nil {
		w.logger.Debug("skipping vanished file", "path", path)
		return
	}
	w.logger.Info("processing new file", "path", path)
	if err := w.handle(ctx, path); err != nil {
		w.logger.Error("processing failed", "path", path, "error", err)
	}
}

// Backfill hands every supported file already in the directory to the handler.
func (w *Watcher) Backfill(ctx context.Context) error {
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if importer.Supported(e) {
			w.dispatch(ctx, e)
		}
	}
	return nil
}
