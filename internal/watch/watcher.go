// Package watch reports batched file changes under a set of directories.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Options tunes a Watcher.
type Options struct {
	// Debounce is how long changes accumulate before a batch is delivered.
	Debounce time.Duration

	// Exclude lists directories whose changes are ignored, such as the
	// build output when it lives under a watched directory.
	Exclude []string

	Logger *slog.Logger
}

// Watcher watches directory trees and delivers changed paths in batches.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	exclude  []string
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op
}

// New creates a watcher over dirs. Directories that do not exist are
// skipped when Run starts.
func New(dirs []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var exclude []string
	for _, d := range opts.Exclude {
		if abs, err := filepath.Abs(d); err == nil {
			exclude = append(exclude, abs)
		}
	}

	return &Watcher{
		dirs:     dirs,
		debounce: opts.Debounce,
		exclude:  exclude,
		fsw:      fsw,
		logger:   opts.Logger,
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

// Run watches until ctx is done, calling onChange with the sorted paths
// changed during each debounce window. onChange runs on the watcher
// goroutine; a slow callback delays the next batch but loses nothing.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.fsw.Close()

	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			w.logger.Debug("watch directory missing", "path", dir)
			continue
		}
		if err := w.addRecursive(dir); err != nil {
			return err
		}
	}

	w.logger.Info("watching for changes", "dirs", w.dirs, "debounce", w.debounce)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			if paths := w.flush(); len(paths) > 0 {
				onChange(paths)
			}
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// skipDir reports whether a directory is hidden or excluded.
func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." && base != ".." {
		return true
	}
	return w.excluded(path)
}

func (w *Watcher) excluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ex := range w.exclude {
		if abs == ex || strings.HasPrefix(abs, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.excluded(event.Name) || strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	// New directories need their own watch.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
}

// flush returns and clears the pending paths.
func (w *Watcher) flush() []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]fsnotify.Op)
	sort.Strings(paths)
	return paths
}
