package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/polyglot/internal/audio"
	"github.com/dgnsrekt/polyglot/internal/cache"
	"github.com/dgnsrekt/polyglot/internal/gemini"
	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/speech"
	"github.com/dgnsrekt/polyglot/utils"
)

// credentials are read from the environment only, never from the config
// file.
type credentials struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
}

type appOptions struct {
	provider bool // connect to the generative provider
	player   bool // open the audio device
}

// app holds the collaborators a command needs.
type app struct {
	history     *history.Store
	historyKind string
	historyPath string

	translator *gemini.Translator
	speech     *speech.Client
	output     audio.Output // nil when no device could be opened

	closers []func() error
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{}

	store, kind, path, err := openHistory()
	if err != nil {
		return nil, err
	}
	a.history, a.historyKind, a.historyPath = store, kind, path
	a.closers = append(a.closers, store.Close)

	if opts.player {
		if p := openPlayer(); p != nil {
			a.output = p
			a.closers = append(a.closers, p.Close)
		}
	}

	if !opts.provider {
		return a, nil
	}

	cfg, err := geminiConfig()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	client, err := gemini.Connect(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.translator = gemini.NewTranslator(client.Models, cfg)

	speechOpts := []speech.Option{speech.WithVoice(voice)}
	if m := openSpeechCache(); m != nil {
		speechOpts = append(speechOpts, speech.WithCache(m))
		a.closers = append(a.closers, m.Close)
	}
	a.speech = speech.NewClient(gemini.NewSynthesizer(client.Models, cfg), a.output, speechOpts...)

	return a, nil
}

// Close releases everything in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func historyDir() (string, error) {
	if dir := viper.GetString("history.path"); dir != "" {
		return utils.ExpandPath(dir), nil
	}
	dir, err := gap.NewScope(gap.User, "polyglot").DataPath("")
	if err != nil {
		return "", fmt.Errorf("could not find data directory: %w", err)
	}
	return dir, nil
}

func openHistory() (*history.Store, string, string, error) {
	dir, err := historyDir()
	if err != nil {
		return nil, "", "", err
	}
	kind := historyBackend
	path := utils.DataPath(dir, history.DefaultFilename(kind))

	b, err := history.Open(kind, path)
	if err != nil {
		return nil, "", "", err
	}
	log.Debug("history opened", "backend", kind, "path", path)
	return history.NewStore(b), kind, path, nil
}

func geminiConfig() (gemini.Config, error) {
	creds, err := env.ParseAs[credentials]()
	if err != nil {
		return gemini.Config{}, fmt.Errorf("error parsing environment: %w", err)
	}

	cfg := gemini.DefaultConfig()
	cfg.APIKey = creds.GeminiAPIKey
	if cfg.APIKey == "" {
		cfg.APIKey = creds.GoogleAPIKey
	}
	cfg.Backend = viper.GetString("gemini.backend")
	cfg.Project = viper.GetString("gemini.project")
	cfg.Location = viper.GetString("gemini.location")
	cfg.Model = viper.GetString("gemini.model")
	cfg.TTSModel = viper.GetString("gemini.tts_model")
	cfg.Temperature = float32(viper.GetFloat64("gemini.temperature"))
	cfg.RequestsPerMinute = viper.GetInt("speech.requests_per_minute")
	return cfg, nil
}

// openPlayer returns nil when no audio device is available; speech then
// fails with a logged error instead of stopping the program.
func openPlayer() *audio.Player {
	pc := audio.DefaultPlayerConfig()
	pc.Volume = viper.GetFloat64("speech.volume")
	p, err := audio.NewPlayer(pc)
	if err != nil {
		log.Warn("audio output unavailable", "error", err)
		return nil
	}
	return p
}

func openSpeechCache() *cache.Manager {
	if !viper.GetBool("speech.cache") {
		return nil
	}
	m, err := loadSpeechCache()
	if err != nil {
		log.Warn("speech cache disabled", "error", err)
		return nil
	}
	return m
}

func loadSpeechCache() (*cache.Manager, error) {
	dir, err := gap.NewScope(gap.User, "polyglot").CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewManager(cache.DefaultConfig(dir))
}
