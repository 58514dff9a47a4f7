package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/logger"
)

// Reloader rebuilds the catalog snapshot
type Reloader interface {
	Reload(ctx context.Context) (*services.LoadResponse, error)
}

// ReloadEvent is emitted after every debounced reload attempt
type ReloadEvent struct {
	Response *services.LoadResponse
	Err      error
	At       time.Time
}

// CatalogWatcher reloads the catalog whenever its file changes.
// It watches the parent directory and filters events by file name.
type CatalogWatcher struct {
	path     string
	reloader Reloader
	debounce time.Duration
	log      *logger.Logger

	events chan ReloadEvent
}

// New creates a watcher for the catalog file at path
func New(path string, reloader Reloader, debounce time.Duration, log *logger.Logger) *CatalogWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if log == nil {
		log = logger.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	return &CatalogWatcher{
		path:     path,
		reloader: reloader,
		debounce: debounce,
		log:      log.With("component", "watcher", "path", path),
		events:   make(chan ReloadEvent, 8),
	}
}

// Events delivers reload outcomes. Events are dropped if nobody reads them.
func (w *CatalogWatcher) Events() <-chan ReloadEvent {
	return w.events
}

// Run watches until ctx is cancelled. Events is closed when Run returns.
func (w *CatalogWatcher) Run(ctx context.Context) error {
	defer close(w.events)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
		wg            sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil && debounceTimer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	doReload := func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		resp, err := w.reloader.Reload(ctx)
		if err != nil {
			w.log.Warn("catalog reload failed", "error", err)
		}
		select {
		case w.events <- ReloadEvent{Response: resp, Err: err, At: time.Now()}:
		default:
		}
	}

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("catalog changed", "op", event.Op.String())

			mu.Lock()
			if debounceTimer != nil && debounceTimer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			debounceTimer = time.AfterFunc(w.debounce, doReload)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *CatalogWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) ||
		event.Has(fsnotify.Remove)
}
