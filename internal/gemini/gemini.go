// Package gemini implements translation streaming and speech synthesis on
// the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// Backend names accepted in Config.Backend.
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

var (
	// ErrMissingAPIKey is returned when the Gemini API backend has no key.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")
	// ErrMissingProject is returned when Vertex AI lacks a project or location.
	ErrMissingProject = errors.New("vertex backend requires gemini.project and gemini.location")
)

// Models is the part of *genai.Models this package calls.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Config selects the provider backend and models.
type Config struct {
	APIKey            string
	Backend           string
	Project           string
	Location          string
	Model             string
	TTSModel          string
	Temperature       float32
	RequestsPerMinute int
}

// DefaultConfig returns the models and settings used out of the box.
func DefaultConfig() Config {
	return Config{
		Backend:           BackendGemini,
		Model:             "gemini-3-flash-preview",
		TTSModel:          "gemini-2.5-flash-preview-tts",
		Temperature:       0.3,
		RequestsPerMinute: 10,
	}
}

// Connect creates the SDK client for cfg.
func Connect(ctx context.Context, cfg Config) (*genai.Client, error) {
	cc := &genai.ClientConfig{}

	switch cfg.Backend {
	case BackendVertex:
		if cfg.Project == "" || cfg.Location == "" {
			return nil, ErrMissingProject
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	case BackendGemini, "":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", cfg.Backend)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return client, nil
}
