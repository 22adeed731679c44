package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgnsrekt/polyglot/internal/history"
)

func TestHistoryWatcherFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not", "yet", "history.json")

	w := newHistoryWatcher(path)
	if w == nil {
		t.Fatal("expected a watcher for a history dir that does not exist yet")
	}
	defer w.close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("history dir not created: %v", err)
	}

	got := make(chan any, 1)
	go func() { got <- w.wait() }()

	if err := history.NewFileBackend(path).Save([]byte("[]")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	select {
	case msg := <-got:
		if _, ok := msg.(historyChangedMsg); !ok {
			t.Errorf("expected historyChangedMsg, got %T", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for the first save")
	}
}

func TestHistoryWatcherDisabledWithoutPath(t *testing.T) {
	if newHistoryWatcher("") != nil {
		t.Error("expected no watcher without a history file")
	}
}
