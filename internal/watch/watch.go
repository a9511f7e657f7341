// Package watch turns filesystem events on the tailed file into wake-ups for
// the scheduler, so new lines show up before the next poll.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the directory containing the tailed file. Watching the
// directory rather than the file keeps events flowing after the file is
// renamed away and recreated.
type Watcher struct {
	fs   *fsnotify.Watcher
	log  *slog.Logger
	wake chan struct{}

	mu     sync.Mutex
	dir    string
	target string
}

// New creates a Watcher. Call Run to start delivering wake-ups.
func New(logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{fs: fw, log: logger, wake: make(chan struct{}, 1)}, nil
}

// Watch switches the watched file to path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if w.dir != "" {
			_ = w.fs.Remove(w.dir)
		}
		if err := w.fs.Add(dir); err != nil {
			w.dir = ""
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dir = dir
	}
	w.target = abs
	return nil
}

// Wake delivers one signal per burst of events on the watched file.
func (w *Watcher) Wake() <-chan struct{} { return w.wake }

// Run forwards events until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !w.isTarget(ev.Name) {
				continue
			}
			select {
			case w.wake <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) isTarget(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return filepath.Clean(name) == w.target
}
