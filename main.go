// Package main provides the entry point for the polyglot CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/lang"
	"github.com/dgnsrekt/polyglot/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile     string
	sourceLang     string
	targetLang     string
	voice          string
	historyBackend string
	mouse          bool

	catalog = lang.Default()

	rootCmd = &cobra.Command{
		Use:   "polyglot",
		Short: "Translate text in the terminal as you type",
		Long: paragraph(
			fmt.Sprintf("\nTranslate text in the terminal %s, then hear it spoken.", keyword("as you type")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("config") {
				viper.SetConfigFile(configFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("unable to read config file: %w", err)
				}
			}
			return validateOptions()
		},
		RunE: execute,
	}
)

func validateOptions() error {
	// grab config values from Viper
	sourceLang = viper.GetString("source")
	targetLang = viper.GetString("target")
	voice = viper.GetString("voice")
	historyBackend = viper.GetString("history.backend")
	mouse = viper.GetBool("mouse")

	c, err := lang.NewCatalog(viper.GetStringSlice("languages.extra"))
	if err != nil {
		return fmt.Errorf("invalid languages.extra: %w", err)
	}
	catalog = c

	if err := catalog.ValidateSource(sourceLang); err != nil {
		return err
	}
	if err := catalog.ValidateTarget(targetLang); err != nil {
		return err
	}
	if !lang.IsVoice(voice) {
		return fmt.Errorf("unknown voice %q: run %s to list them", voice, keyword("polyglot voices"))
	}
	if historyBackend != history.KindFile && historyBackend != history.KindSQLite {
		return fmt.Errorf("history backend must be %q or %q, got %q", history.KindFile, history.KindSQLite, historyBackend)
	}
	if d := viper.GetDuration("debounce"); d <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", d)
	}
	if v := viper.GetFloat64("speech.volume"); v < 0 || v > 1 {
		return fmt.Errorf("speech volume must be between 0.0 and 1.0, got %.2f", v)
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readText returns the text given as argument, or stdin for "-" or when
// stdin is a pipe.
func readText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	yes, err := stdinIsPipe()
	if err != nil {
		return "", err
	}
	if !yes && len(args) == 0 {
		return "", errors.New("missing text: pass it as an argument or pipe it in")
	}

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read from stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func execute(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive translator needs a terminal; try %s", keyword("polyglot translate"))
	}
	return runTUI(cmd)
}

func runTUI(cmd *cobra.Command) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Source = sourceLang
	cfg.Target = targetLang
	cfg.Voice = voice
	cfg.Debounce = viper.GetDuration("debounce")
	cfg.EnableMouse = mouse

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{provider: true, player: true})
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if a.historyKind == history.KindFile {
		cfg.HistoryPath = a.historyPath
	}

	// Run Bubble Tea program
	p := ui.NewProgram(ctx, cfg, ui.Services{
		Translator: a.translator,
		Speech:     a.speech,
		History:    a.history,
		Catalog:    catalog,
	})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		_ = closer()
		os.Exit(1)
	}
	stop()
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringVarP(&sourceLang, "from", "f", lang.Auto, "source language code, or auto")
	flags.StringVarP(&targetLang, "to", "t", "es", "target language code")
	flags.StringVar(&voice, "voice", lang.DefaultVoice, "speech voice")
	flags.StringVar(&historyBackend, "history-backend", history.KindFile, "history storage: file or sqlite")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel (TUI-mode only)")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("source", flags.Lookup("from"))
	_ = viper.BindPFlag("target", flags.Lookup("to"))
	_ = viper.BindPFlag("voice", flags.Lookup("voice"))
	_ = viper.BindPFlag("history.backend", flags.Lookup("history-backend"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	setDefaults()

	rootCmd.AddCommand(configCmd, manCmd, translateCmd, speakCmd, playCmd, historyCmd, languagesCmd, voicesCmd, cacheCmd)
}

func setDefaults() {
	viper.SetDefault("source", lang.Auto)
	viper.SetDefault("target", "es")
	viper.SetDefault("voice", lang.DefaultVoice)
	viper.SetDefault("debounce", "800ms")
	viper.SetDefault("mouse", false)

	viper.SetDefault("history.backend", history.KindFile)
	viper.SetDefault("history.path", "")

	viper.SetDefault("gemini.backend", "gemini")
	viper.SetDefault("gemini.model", "gemini-3-flash-preview")
	viper.SetDefault("gemini.tts_model", "gemini-2.5-flash-preview-tts")
	viper.SetDefault("gemini.temperature", 0.3)

	viper.SetDefault("speech.cache", true)
	viper.SetDefault("speech.requests_per_minute", 10)
	viper.SetDefault("speech.volume", 1.0)

	viper.SetDefault("languages.extra", []string{})
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "polyglot")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "polyglot")}, dirs...)
	}

	if c := os.Getenv("POLYGLOT_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("polyglot")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("polyglot")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "polyglot.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
