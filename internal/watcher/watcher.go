package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"golang.org/x/time/rate"
)

// Watcher re-triggers a scan when watched inputs change. Events are
// debounced, and a token bucket caps the rescan frequency so a noisy
// build step cannot thrash the pipeline.
type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	debounce    time.Duration
	limiter     *rate.Limiter
	excludeDirs []glob.Glob
	onChange    func()
	callbackMu  sync.Mutex

	pendingMu sync.Mutex
	pending   bool
	timer     *time.Timer
}

func New(debounce time.Duration, maxScansPerSec float64, excludeDirs []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		limiter:   rate.NewLimiter(rate.Limit(maxScansPerSec), 1),
		onChange:  onChange,
	}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.excludeDirs = append(w.excludeDirs, g)
	}

	return w, nil
}

// Watch registers the given roots (directories recursively, files by
// parent directory) and starts the event loop.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			slog.Warn("cannot watch missing path", "path", path)
			continue
		}
		if !info.IsDir() {
			if err := w.fsWatcher.Add(filepath.Dir(path)); err != nil {
				return err
			}
			continue
		}
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	w.pending = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()

	return w.fsWatcher.Close()
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}

		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				w.scheduleRescan()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleRescan() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	if err := w.limiter.Wait(context.Background()); err != nil {
		return
	}

	// Rescans must not overlap: a run slower than the debounce window
	// would otherwise race a second run on the same output files.
	w.callbackMu.Lock()
	w.onChange()
	w.callbackMu.Unlock()
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}
