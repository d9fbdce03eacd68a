// Package watch reports when the shopping-list database changes on disk, so a running
// TUI can pick up edits made by the CLI.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"smartshop/internal/logging"
)

// DefaultDebounce batches the burst of writes SQLite makes for one transaction.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches a directory for writes to files starting with a prefix
// (e.g. "smartshop.sqlite" also matches its -wal and -shm files).
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	prefix   string
	debounce time.Duration
	log      *log.Logger

	changes chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a watcher for files in dir whose base name starts with prefix.
func New(dir, prefix string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  w,
		dir:      filepath.Clean(dir),
		prefix:   prefix,
		debounce: debounce,
		log:      logging.OrDiscard(logger),
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes delivers one signal per debounced burst of writes. Signals coalesce: a slow
// reader sees at most one pending notification.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.running = true
	go w.run(ctx)
	w.log.Debug("watching store", "dir", w.dir)
	return nil
}

// Stop ends the watch loop and releases the underlying watcher. It is safe to call
// more than once, and before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("store watcher error", "err", err)
		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), w.prefix)
}
