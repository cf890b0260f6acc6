package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"gestured/internal/catalog"
)

// Watcher reparses and swaps a Handle's catalog whenever the config file or
// any of its imports changes on disk. Runs as its own single-purpose
// background thread, blocking on fsnotify's event and error channels.
type Watcher struct {
	path    string
	files   map[string]bool
	handle  *Handle
	log     zerolog.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher builds a Watcher for path, watching the directories containing
// path and each of its current imports. fsnotify watches directories
// rather than individual files so that editors which replace a file via
// rename are still observed.
func NewWatcher(path string, handle *Handle, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	paths, err := catalog.ImportPaths(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	watchedDirs := make(map[string]bool)
	for _, p := range paths {
		clean := filepath.Clean(p)
		files[clean] = true

		dir := filepath.Dir(clean)
		if watchedDirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %q: %w", dir, err)
		}
		watchedDirs[dir] = true
	}

	return &Watcher{path: path, files: files, handle: handle, log: log, watcher: fsw}, nil
}

// Run blocks, reloading and swapping the handle's catalog on every relevant
// filesystem event, until the watcher is closed. A reload failure is a
// runtime warning: it is logged and the previous catalog stays live.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Str("component", "config").Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

func (w *Watcher) reload() {
	cat, err := catalog.Load(w.path, w.log)
	if err != nil {
		w.log.Warn().Str("component", "config").Err(err).Msg("reload failed, keeping previous catalog")
		return
	}
	w.handle.store(cat)
	w.log.Info().Str("component", "config").Msg("catalog reloaded")
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
