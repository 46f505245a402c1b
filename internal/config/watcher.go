package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the config file must be quiet before it is
// reloaded.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives the re-parsed config, or the error that prevented
// parsing it.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads a config file whenever it changes. The parent directory
// is watched so that editors replacing the file by rename are seen.
type Watcher struct {
	path     string
	onReload ReloadFunc
	watcher  *fsnotify.Watcher
	debounce time.Duration

	running bool
	stopCh  chan struct{}
	done    chan struct{}
	mu      sync.Mutex

	// debouncing state
	pendingMu sync.Mutex
	pending   time.Time
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, debounce time.Duration, onReload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		onReload: onReload,
		watcher:  fsWatcher,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}
	w.running = true
	go w.run()
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			w.pending = time.Now()
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onReload(nil, fmt.Errorf("watch config: %w", err))

		case <-ticker.C:
			w.flush()
		}
	}
}

// flush reloads once the file has been quiet for the debounce interval.
func (w *Watcher) flush() {
	w.pendingMu.Lock()
	ts := w.pending
	if ts.IsZero() || time.Since(ts) < w.debounce {
		w.pendingMu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.pendingMu.Unlock()

	w.onReload(Load(w.path))
}
