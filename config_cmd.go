package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# source language code, or "auto" to detect it
source: "auto"
# target language code
target: "es"
# prebuilt voice used for speech (see "polyglot voices")
voice: "Kore"
# quiet time after the last edit before translating
debounce: "800ms"
# mouse support (TUI-mode only)
mouse: false

history:
  # "file" (JSON) or "sqlite"
  backend: "file"
  # directory holding the history; defaults to the user data directory
  # path: "~/.local/share/polyglot"

gemini:
  # "gemini" (API key from GEMINI_API_KEY) or "vertex"
  backend: "gemini"
  model: "gemini-3-flash-preview"
  tts_model: "gemini-2.5-flash-preview-tts"
  temperature: 0.3
  # project: "my-project"
  # location: "us-central1"

speech:
  # keep synthesized audio on disk so repeated phrases play instantly
  cache: true
  requests_per_minute: 10
  # playback volume (0.0 to 1.0)
  volume: 1.0

languages:
  # extra BCP-47 codes appended to the picker
  extra: []
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the polyglot config file",
	Long:    paragraph(fmt.Sprintf("\n%s the polyglot config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("polyglot config\npolyglot config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Polyglot", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
