package knowledge

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/venturelens/pulse/pkg/logger"
	"github.com/venturelens/pulse/pkg/metrics"
)

// Watcher hot-reloads the knowledge base when its file changes. A reload
// that fails validation keeps the last-known-good table active.
type Watcher struct {
	path   string
	loader *Loader
	store  *Store
	logger logger.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher creates a watcher for path. Start begins watching.
func NewWatcher(path string, loader *Loader, store *Store) *Watcher {
	return &Watcher{
		path:   path,
		loader: loader,
		store:  store,
		logger: logger.Get().Named("knowledge-watch"),
		done:   make(chan struct{}),
	}
}

// Start loads the file once and then watches for changes until ctx is
// cancelled or Stop is called. The initial load must succeed; later reload
// failures only log and count.
func (w *Watcher) Start(ctx context.Context) error {
	table, err := w.loader.LoadFile(w.path)
	if err != nil {
		return fmt.Errorf("initial knowledge load: %w", err)
	}
	w.store.Swap(ctx, table)
	metrics.RecordKnowledgeReload("success")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	// Watch the directory: editors and config maps commonly replace the
	// file rather than writing it in place.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.fsw = fsw

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer func() { _ = w.fsw.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "file watcher error", logger.Error(err))
		}
	}
}

// reload swaps in the new table, or keeps the old one on failure.
func (w *Watcher) reload(ctx context.Context) {
	table, err := w.loader.LoadFile(w.path)
	if err != nil {
		metrics.RecordKnowledgeReload("failure")
		w.logger.Error(ctx, "knowledge reload rejected, keeping last-known-good",
			logger.String("path", w.path),
			logger.Error(err),
		)
		return
	}
	w.store.Swap(ctx, table)
	metrics.RecordKnowledgeReload("success")
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	close(w.done)
}
