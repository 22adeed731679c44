package translate

import (
	"context"
	"fmt"

	"github.com/dgnsrekt/polyglot/internal/lang"
)

// ErrorMessage replaces the translation when a request fails.
const ErrorMessage = "Error occurred during translation. Please try again."

// Streamer sends one translation request and reports fragments in arrival
// order. It makes a single attempt: no retry, no cache.
type Streamer interface {
	StreamTranslate(ctx context.Context, text, source, target string, onFragment func(string)) error
}

// StreamerFunc adapts a function to the Streamer interface.
type StreamerFunc func(ctx context.Context, text, source, target string, onFragment func(string)) error

func (f StreamerFunc) StreamTranslate(ctx context.Context, text, source, target string, onFragment func(string)) error {
	return f(ctx, text, source, target, onFragment)
}

// SourceLabel is how the source language is named in the prompt.
func SourceLabel(source string) string {
	if source == lang.Auto {
		return "automatically detected"
	}
	return source
}

// BuildPrompt returns the instruction sent to the model.
func BuildPrompt(text, source, target string) string {
	return fmt.Sprintf(`Translate the following text from %s to %s.
Provide ONLY the translated text without any explanations, notes, or prefixes.
Maintain the original tone, formatting, and cultural nuances.

Text to translate:
"%s"`, SourceLabel(source), target, text)
}
