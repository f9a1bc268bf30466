package docsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsnap/internal/logfields"
)

const debounceDelay = 300 * time.Millisecond

// Watch runs a sync, then re-runs it whenever a watched source changes, until
// ctx is canceled. Failed runs are logged and do not stop the loop.
func (e *Engine) Watch(ctx context.Context) error {
	if _, err := e.Run(ctx); err != nil {
		e.logger.Warn("Initial sync failed; waiting for changes", logfields.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	docsDir := e.DocsDir()
	for _, dir := range e.watchDirs() {
		if err := watcher.Add(dir); err != nil {
			e.logger.Warn("watch add failed", slog.String("dir", dir), logfields.Error(err))
		}
	}
	assetsDir := ""
	if e.cfg.AssetsDir != "" {
		assetsDir = filepath.Join(e.root, filepath.FromSlash(e.cfg.AssetsDir))
		if fi, statErr := os.Stat(assetsDir); statErr == nil && fi.IsDir() {
			addDirsRecursive(watcher, assetsDir)
		}
	}
	e.logger.Info("Watching for documentation changes", slog.Int("dirs", len(watcher.WatchList())))

	syncReq, trigger := setupDebouncer(debounceDelay)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) || within(ev.Name, docsDir) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create && assetsDir != "" && within(ev.Name, assetsDir) {
				if fi, statErr := os.Stat(ev.Name); statErr == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name)
				}
			}
			e.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", logfields.Error(werr))
		case <-syncReq:
			e.logger.Info("Change detected; syncing documentation")
			if _, err := e.Run(ctx); err != nil && ctx.Err() == nil {
				e.logger.Warn("sync failed", logfields.Error(err))
			}
		}
	}
}

// watchDirs returns the directories holding the descriptor and every
// configured source. Directories outside the root or inside the docs tree are
// skipped.
func (e *Engine) watchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if seen[dir] || !within(dir, e.root) || within(dir, e.DocsDir()) {
			return
		}
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	add(filepath.Dir(filepath.Join(e.root, filepath.FromSlash(e.cfg.Descriptor))))
	for _, d := range e.cfg.RootDocuments {
		add(filepath.Dir(filepath.Join(e.root, filepath.FromSlash(d.Source))))
	}
	if sm, _, err := e.Plan(); err == nil {
		for _, entry := range sm.Entries() {
			add(filepath.Dir(filepath.Join(e.root, filepath.FromSlash(entry.Source))))
		}
	}
	return dirs
}

// setupDebouncer returns a request channel and a trigger. Calls to trigger
// within delay of each other produce one request.
func setupDebouncer(delay time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

// addDirsRecursive watches root and its subdirectories, skipping hidden ones.
func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", slog.String("dir", path), logfields.Error(err))
		}
		return nil
	})
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger syncs.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
