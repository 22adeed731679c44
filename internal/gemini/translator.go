package gemini

import (
	"context"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/dgnsrekt/polyglot/internal/translate"
)

// Translator streams translations from a generative model.
type Translator struct {
	models      Models
	model       string
	temperature float32
}

// NewTranslator returns a translator using cfg.Model and cfg.Temperature.
func NewTranslator(models Models, cfg Config) *Translator {
	return &Translator{models: models, model: cfg.Model, temperature: cfg.Temperature}
}

// StreamTranslate sends one streamed request and passes each non-empty
// fragment to onFragment in arrival order. Errors are returned as the SDK
// reported them.
func (t *Translator) StreamTranslate(ctx context.Context, text, source, target string, onFragment func(string)) error {
	temp := t.temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temp}

	prompt := translate.BuildPrompt(text, source, target)
	log.Debug("streaming translation", "model", t.model, "from", source, "to", target, "chars", len(text))

	for resp, err := range t.models.GenerateContentStream(ctx, t.model, genai.Text(prompt), cfg) {
		if err != nil {
			return err
		}
		if fragment := resp.Text(); fragment != "" {
			onFragment(fragment)
		}
	}
	return nil
}
