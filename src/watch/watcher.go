// Package watch notifies the dashboards when a CSV file in the data
// directory changes so they can reload without a restart.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

// DefaultDebounce coalesces the bursts of writes editors and exporters emit.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one directory (non-recursive) for .csv changes.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}

	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer
}

// New creates a watcher; debounce <= 0 selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir. onChange receives the path of each changed
// CSV file once per debounce window, on a background goroutine.
func (w *Watcher) Watch(dir string, onChange func(path string)) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(abs); err != nil {
		return err
	}
	go w.loop(onChange)
	return nil
}

func (w *Watcher) loop(onChange func(string)) {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !IsCSV(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.schedule(ev.Name, onChange)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.Debugf("watch: %v", err)
		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the per-file timer so only the last event of a burst fires.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// Stop ends monitoring. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

// IsCSV reports whether path names a CSV file (case-insensitive).
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
