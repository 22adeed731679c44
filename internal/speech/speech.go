// Package speech turns text into audible speech: it asks a synthesizer
// for 24 kHz mono PCM and hands the decoded buffer to an audio output.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/polyglot/internal/audio"
	"github.com/dgnsrekt/polyglot/internal/cache"
	"github.com/dgnsrekt/polyglot/internal/lang"
)

// Instruction prefixes the text sent for synthesis.
const Instruction = "Read this text clearly: "

var (
	// ErrNoAudioData is returned when the response carries no audio payload.
	ErrNoAudioData = errors.New("no audio data received")
	// ErrEmptyText is returned when there is nothing to say.
	ErrEmptyText = errors.New("nothing to speak")
)

// Synthesizer produces raw 16-bit little-endian PCM, 24 kHz mono, for a
// prompt in the named voice. Implementations return ErrNoAudioData when
// the provider answers without audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt, voice string) ([]byte, error)
}

// Cache stores synthesized PCM by key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Client speaks text through an audio output.
type Client struct {
	synth Synthesizer
	out   audio.Output
	cache Cache
	voice string
}

// Option configures a Client.
type Option func(*Client)

// WithCache keeps synthesized audio in c.
func WithCache(c Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithVoice sets the voice used when Speak is called without one.
func WithVoice(voice string) Option {
	return func(cl *Client) {
		if voice != "" {
			cl.voice = voice
		}
	}
}

// NewClient creates a speech client. out may be nil for clients that only
// fetch audio.
func NewClient(synth Synthesizer, out audio.Output, opts ...Option) *Client {
	c := &Client{synth: synth, out: out, voice: lang.DefaultVoice}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Voice returns the default voice.
func (c *Client) Voice() string { return c.voice }

// Fetch returns the PCM for text spoken in voice, from the cache when
// possible.
func (c *Client) Fetch(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if voice == "" {
		voice = c.voice
	}

	text = Speakable(text)
	key := cache.Key(voice, text)
	if c.cache != nil {
		if pcm, ok := c.cache.Get(key); ok {
			log.Debug("speech cache hit", "voice", voice, "bytes", len(pcm))
			return pcm, nil
		}
	}

	pcm, err := c.synth.Synthesize(ctx, Instruction+text, voice)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudioData
	}

	if c.cache != nil {
		if err := c.cache.Put(key, pcm); err != nil {
			log.Warn("could not cache speech", "error", err)
		}
	}
	return pcm, nil
}

// Buffer returns text as a decoded, playable buffer.
func (c *Client) Buffer(ctx context.Context, text, voice string) (*audio.Buffer, error) {
	pcm, err := c.Fetch(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	buf, err := audio.ToPlayableBuffer(pcm, audio.SpeechSampleRate, audio.SpeechChannels)
	if err != nil {
		return nil, fmt.Errorf("decode speech: %w", err)
	}
	return buf, nil
}

// Speak synthesizes text and starts playback immediately. It does not
// serialize concurrent calls; callers gate on their own speaking flag.
func (c *Client) Speak(ctx context.Context, text, voice string) (audio.Handle, error) {
	if c.out == nil {
		return nil, errors.New("speech client has no audio output")
	}
	buf, err := c.Buffer(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	h, err := c.out.Play(buf)
	if err != nil {
		return nil, fmt.Errorf("start playback: %w", err)
	}
	log.Debug("speaking", "voice", voice, "duration", h.Duration())
	return h, nil
}
