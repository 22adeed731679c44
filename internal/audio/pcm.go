package audio

import (
	"encoding/binary"
	"math"
)

// EncodePCM16 interleaves the buffer back into little-endian signed 16-bit
// PCM. Samples outside [-1, 1) are clamped.
func EncodePCM16(b *Buffer) []byte {
	channels := b.NumChannels()
	frames := b.Frames()
	out := make([]byte, frames*channels*2)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			binary.LittleEndian.PutUint16(out[off:], uint16(toInt16(b.Channels[ch][i])))
		}
	}
	return out
}

func toInt16(s float32) int16 {
	v := math.Round(float64(s) * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Resample converts the buffer to rate using linear interpolation. The
// input buffer is returned untouched when the rates already match.
func Resample(b *Buffer, rate int) (*Buffer, error) {
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if b.SampleRate == rate {
		return b, nil
	}

	ratio := float64(rate) / float64(b.SampleRate)
	inFrames := b.Frames()
	outFrames := int(float64(inFrames) * ratio)

	out, err := NewBuffer(b.NumChannels(), outFrames, rate)
	if err != nil {
		return nil, err
	}
	for ch, in := range b.Channels {
		dst := out.Channels[ch]
		for i := range dst {
			pos := float64(i) / ratio
			idx := int(pos)
			if idx >= inFrames-1 {
				dst[i] = in[inFrames-1]
				continue
			}
			frac := float32(pos - float64(idx))
			dst[i] = in[idx]*(1-frac) + in[idx+1]*frac
		}
	}
	return out, nil
}

// Remix converts the buffer to the given channel count. Mono is spread to
// every output channel; anything else is averaged down to mono first.
func Remix(b *Buffer, channels int) (*Buffer, error) {
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if b.NumChannels() == channels {
		return b, nil
	}

	mono := b.Channels[0]
	if b.NumChannels() > 1 {
		mono = make([]float32, b.Frames())
		for _, in := range b.Channels {
			for i, s := range in {
				mono[i] += s / float32(b.NumChannels())
			}
		}
	}

	out := &Buffer{SampleRate: b.SampleRate, Channels: make([][]float32, channels)}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float32, len(mono))
		copy(out.Channels[ch], mono)
	}
	return out, nil
}
