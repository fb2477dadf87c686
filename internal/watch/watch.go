// Package watch re-runs a callback whenever one of a set of grammar files
// changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/l-donovan/bnf/internal/logger"
)

const DefaultDebounce = 100 * time.Millisecond

type Watcher struct {
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	log      logger.Logger
	ready    chan struct{}
}

// New prepares a watcher for paths. Parent directories are watched rather
// than the files themselves so that editors which replace a file on save are
// still picked up.
func New(paths []string, debounce time.Duration, log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Discard()
	}

	w := &Watcher{
		files:    map[string]bool{},
		dirs:     map[string]bool{},
		debounce: debounce,
		log:      log,
		ready:    make(chan struct{}),
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)

		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}

		w.files[abs] = true
		w.dirs[filepath.Dir(abs)] = true
	}

	if len(w.files) == 0 {
		return nil, errors.New("no files to watch")
	}

	return w, nil
}

// Ready is closed once every directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is done, calling onChange with the absolute path of
// each file that was written, created or renamed into place. Bursts of events
// for one file within the debounce window produce a single call. onChange is
// never called concurrently with itself.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	fsWatcher, err := fsnotify.NewWatcher()

	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	defer fsWatcher.Close()

	for dir := range w.dirs {
		if err := fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	w.log.Info("watching grammar files", "files", len(w.files), "directories", len(w.dirs))
	close(w.ready)

	changes := make(chan string)
	var mu sync.Mutex
	timers := map[string]*time.Timer{}

	defer func() {
		mu.Lock()
		defer mu.Unlock()

		for _, timer := range timers {
			timer.Stop()
		}
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if timer, ok := timers[path]; ok {
			timer.Stop()
		}

		timers[path] = time.AfterFunc(w.debounce, func() {
			select {
			case changes <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("stopping file watcher")
			return nil
		case path := <-changes:
			onChange(path)
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}

			if !w.files[event.Name] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.log.Debug("detected change", "file", event.Name, "op", event.Op.String())
				schedule(event.Name)
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}

			w.log.Error("watcher error", "error", err)
		}
	}
}
