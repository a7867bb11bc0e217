package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay groups the burst of events an editor save produces.
const debounceDelay = 200 * time.Millisecond

// watchSet is what the watcher observes. Directories are watched
// recursively; a file is watched through its parent directory so atomic
// saves (write to temp, rename) are not lost.
type watchSet struct {
	dirs  []string        // watched roots, absolute
	files map[string]bool // watched files, absolute
}

// newWatchSet classifies paths. Missing paths are skipped.
func newWatchSet(paths []string) watchSet {
	ws := watchSet{files: map[string]bool{}}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		if info.IsDir() {
			ws.dirs = append(ws.dirs, abs)
		} else {
			ws.files[abs] = true
		}
	}
	return ws
}

// relevant reports whether ev should trigger a re-render.
func (ws watchSet) relevant(ev fsnotify.Event) bool {
	if !isWatchEvent(ev.Op) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if ws.files[ev.Name] {
		return true
	}
	for _, dir := range ws.dirs {
		if ev.Name == dir || strings.HasPrefix(ev.Name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func isWatchEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// add registers the watch set with w.
func (ws watchSet) add(w *fsnotify.Watcher) error {
	for _, dir := range ws.dirs {
		if err := watchDirs(w, dir); err != nil {
			return err
		}
	}
	for file := range ws.files {
		if err := w.Add(filepath.Dir(file)); err != nil {
			return fmt.Errorf("watching %s: %w", file, err)
		}
	}
	return nil
}

// watchDirs adds root and every non-hidden directory below it.
func watchDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// watchAndRender calls render after every relevant change below paths
// until ctx is done. Render errors are logged and watching continues.
func watchAndRender(ctx context.Context, paths []string, render func() error, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	ws := newWatchSet(paths)
	if err := ws.add(w); err != nil {
		return err
	}
	logger.Info("watching for changes", zap.Strings("paths", paths))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && ws.relevant(ev) {
					_ = watchDirs(w, ev.Name)
				}
			}
			if !ws.relevant(ev) {
				continue
			}
			logger.Debug("change detected", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := render(); err != nil {
				logger.Error("render failed", zap.Error(err))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
