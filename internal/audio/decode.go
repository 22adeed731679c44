package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// Speech payloads from the provider are 24 kHz mono signed 16-bit PCM.
const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
)

var (
	// ErrInvalidChannels is returned for channel counts below one.
	ErrInvalidChannels = errors.New("channel count must be at least 1")
	// ErrInvalidSampleRate is returned for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// Buffer is decoded audio: one sample slice per channel, all the same
// length, with samples in [-1.0, 1.0).
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewBuffer allocates a silent buffer of the given shape.
func NewBuffer(channels, frames, sampleRate int) (*Buffer, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	b := &Buffer{SampleRate: sampleRate, Channels: make([][]float32, channels)}
	for ch := range b.Channels {
		b.Channels[ch] = make([]float32, frames)
	}
	return b, nil
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Decode reverses standard base64 encoding of a payload.
func Decode(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return raw, nil
}

// ToPlayableBuffer interprets raw as interleaved little-endian signed
// 16-bit PCM across channels and de-interleaves it. Each sample is divided
// by 32768. A trailing partial frame, or a dangling odd byte, is dropped.
func ToPlayableBuffer(raw []byte, sampleRate, channels int) (*Buffer, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	totalSamples := len(raw) / 2
	frames := totalSamples / channels

	b, err := NewBuffer(channels, frames, sampleRate)
	if err != nil {
		return nil, err
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			s := int16(uint16(raw[off]) | uint16(raw[off+1])<<8)
			b.Channels[ch][i] = float32(s) / 32768.0
		}
	}
	return b, nil
}

// DecodeSpeech decodes a base64 speech payload at the provider's fixed
// format.
func DecodeSpeech(payload string) (*Buffer, error) {
	raw, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return ToPlayableBuffer(raw, SpeechSampleRate, SpeechChannels)
}
