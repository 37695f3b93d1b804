// Package watch reports when source files are saved.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultDebounce groups the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches individual files. Parent directories are watched so that
// editors that save by rename are still seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool // absolute paths
	dirs  map[string]bool
}

// New creates a Watcher. A debounce of 0 uses DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// Run delivers the absolute path of each changed file on the returned
// channel until ctx is done. Events for one file within the debounce window
// are merged.
func (w *Watcher) Run(ctx context.Context) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)
		defer w.fsw.Close()

		pending := make(map[string]time.Time)
		ticker := time.NewTicker(w.debounce / 2)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				path := filepath.Clean(ev.Name)
				w.mu.Lock()
				tracked := w.files[path]
				w.mu.Unlock()
				if tracked {
					pending[path] = time.Now()
				}

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				log.Warnf("File watcher error: %v", err)

			case now := <-ticker.C:
				for path, at := range pending {
					if now.Sub(at) < w.debounce {
						continue
					}
					delete(pending, path)
					select {
					case out <- path:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}
