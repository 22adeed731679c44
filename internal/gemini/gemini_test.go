package gemini

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/dgnsrekt/polyglot/internal/speech"
)

// fakeModels stands in for *genai.Models.
type fakeModels struct {
	chunks    []string
	streamErr error
	response  *genai.GenerateContentResponse
	err       error

	model  string
	prompt string
	config *genai.GenerateContentConfig
	calls  int
}

func (f *fakeModels) record(model string, contents []*genai.Content, config *genai.GenerateContentConfig) {
	f.calls++
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.record(model, contents, config)
	return f.response, f.err
}

func (f *fakeModels) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.record(model, contents, config)
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range f.chunks {
			if !yield(textResponse(c), nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(nil, f.streamErr)
		}
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func audioResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{
				InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: data},
			}}},
		}},
	}
}

func TestStreamTranslate(t *testing.T) {
	fm := &fakeModels{chunks: []string{"Hol", "", "a"}}
	tr := NewTranslator(fm, DefaultConfig())

	var got []string
	err := tr.StreamTranslate(context.Background(), "Hello", "auto", "es", func(s string) {
		got = append(got, s)
	})
	if err != nil {
		t.Fatalf("StreamTranslate() error: %v", err)
	}
	if strings.Join(got, "|") != "Hol|a" {
		t.Errorf("expected non-empty fragments in order, got %q", got)
	}
	if fm.model != "gemini-3-flash-preview" {
		t.Errorf("unexpected model %q", fm.model)
	}
	if fm.config.Temperature == nil || *fm.config.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", fm.config.Temperature)
	}
	if !strings.Contains(fm.prompt, "from automatically detected to es") || !strings.Contains(fm.prompt, `"Hello"`) {
		t.Errorf("unexpected prompt:\n%s", fm.prompt)
	}
}

func TestStreamTranslateError(t *testing.T) {
	providerErr := errors.New("429 resource exhausted")
	fm := &fakeModels{chunks: []string{"Ho"}, streamErr: providerErr}
	tr := NewTranslator(fm, DefaultConfig())

	var got string
	err := tr.StreamTranslate(context.Background(), "Hello", "en", "es", func(s string) { got += s })
	if err != providerErr {
		t.Errorf("expected the provider error untouched, got %v", err)
	}
	if got != "Ho" {
		t.Errorf("fragments before the failure should be delivered, got %q", got)
	}
	if fm.calls != 1 {
		t.Errorf("expected a single attempt, got %d", fm.calls)
	}
}

func TestSynthesize(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	fm := &fakeModels{response: audioResponse(pcm)}
	s := NewSynthesizer(fm, DefaultConfig())

	got, err := s.Synthesize(context.Background(), "Read this text clearly: Hola", "Puck")
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("expected %v, got %v", pcm, got)
	}
	if fm.model != "gemini-2.5-flash-preview-tts" {
		t.Errorf("unexpected model %q", fm.model)
	}
	if len(fm.config.ResponseModalities) != 1 || fm.config.ResponseModalities[0] != string(genai.ModalityAudio) {
		t.Errorf("expected audio-only response, got %v", fm.config.ResponseModalities)
	}
	if v := fm.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; v != "Puck" {
		t.Errorf("expected voice Puck, got %q", v)
	}
}

func TestSynthesizeErrors(t *testing.T) {
	providerErr := errors.New("unavailable")

	tests := []struct {
		name    string
		fm      *fakeModels
		wantErr error
	}{
		{"provider failure", &fakeModels{err: providerErr}, providerErr},
		{"nil response", &fakeModels{}, speech.ErrNoAudioData},
		{"text only", &fakeModels{response: textResponse("sorry")}, speech.ErrNoAudioData},
		{"empty payload", &fakeModels{response: audioResponse(nil)}, speech.ErrNoAudioData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(tt.fm, DefaultConfig())
			if _, err := s.Synthesize(context.Background(), "x", "Kore"); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSynthesizeThrottles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestsPerMinute = 1
	s := NewSynthesizer(&fakeModels{response: audioResponse([]byte{0, 0})}, cfg)

	if _, err := s.Synthesize(context.Background(), "a", "Kore"); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Synthesize(ctx, "b", "Kore"); err == nil {
		t.Error("second request within the minute should wait past the deadline")
	}
}

func TestConnectValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing key", Config{Backend: BackendGemini}, ErrMissingAPIKey},
		{"vertex without project", Config{Backend: BackendVertex, Location: "us-central1"}, ErrMissingProject},
		{"vertex without location", Config{Backend: BackendVertex, Project: "p"}, ErrMissingProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Connect(context.Background(), tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := Connect(context.Background(), Config{Backend: "openai", APIKey: "k"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
