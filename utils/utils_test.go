package utils

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
)

func init() {
	homedir.DisableCache = true
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	t.Setenv("POLYGLOT_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"~/polyglot", "/home/test/polyglot"},
		{"$POLYGLOT_DIR/history.json", "/data/history.json"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDataPath(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	want := filepath.Join("/home/test", ".polyglot", "history.db")
	if got := DataPath("~/.polyglot", "history.db"); got != want {
		t.Errorf("DataPath() = %q, want %q", got, want)
	}
}
