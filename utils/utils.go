// Package utils provides utility functions.
package utils

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// DataPath joins name onto dir after expanding dir.
func DataPath(dir, name string) string {
	return filepath.Join(ExpandPath(dir), name)
}
