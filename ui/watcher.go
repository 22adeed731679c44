package ui

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

type historyChangedMsg struct{}

// historyWatcher reports writes to the history file, including ones made
// by another polyglot process.
type historyWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func newHistoryWatcher(path string) *historyWatcher {
	if path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return nil
	}
	dir := filepath.Dir(path)
	// Nothing has been saved on a first run, so the directory may not exist yet.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("error creating history dir", "dir", dir, "error", err)
		_ = w.Close()
		return nil
	}
	if err := w.Add(dir); err != nil {
		log.Error("error adding dir to fsnotify watcher", "dir", dir, "error", err)
		_ = w.Close()
		return nil
	}
	log.Info("fsnotify watching dir", "dir", dir)
	return &historyWatcher{path: path, watcher: w}
}

// wait blocks until the history file changes.
func (w *historyWatcher) wait() tea.Msg {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return historyChangedMsg{}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", w.path, "error", err)
		}
	}
}

func (w *historyWatcher) close() {
	if err := w.watcher.Close(); err != nil {
		log.Error("fsnotify close failed", "error", err)
	}
}
