package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/dgnsrekt/polyglot/internal/speech"
)

// Synthesizer requests spoken audio from a TTS model. Requests are spaced
// to stay under the model's per-minute quota.
type Synthesizer struct {
	models  Models
	model   string
	limiter *rate.Limiter
}

// NewSynthesizer returns a synthesizer using cfg.TTSModel. A
// RequestsPerMinute of zero disables throttling.
func NewSynthesizer(models Models, cfg Config) *Synthesizer {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &Synthesizer{
		models:  models,
		model:   cfg.TTSModel,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Synthesize returns the raw PCM the model spoke for prompt.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt, voice string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for speech quota: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	res, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate speech: %w", err)
	}

	data := inlineAudio(res)
	if len(data) == 0 {
		return nil, speech.ErrNoAudioData
	}
	log.Debug("speech synthesized", "voice", voice, "bytes", len(data))
	return data, nil
}

// inlineAudio returns the first inline payload of the response.
func inlineAudio(res *genai.GenerateContentResponse) []byte {
	if res == nil {
		return nil
	}
	for _, c := range res.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData.Data
			}
		}
	}
	return nil
}
