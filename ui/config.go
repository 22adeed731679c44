package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	HighContrast bool `env:"POLYGLOT_HIGH_CONTRAST"`
	EnableMouse  bool

	// Initial selections
	Source string
	Target string
	Voice  string

	Debounce time.Duration

	// HistoryPath is watched for changes made by other processes. Empty
	// disables watching.
	HistoryPath string
}
