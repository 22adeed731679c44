package audio

import (
	"bytes"
	"math"
	"testing"
)

func TestEncodePCM16RoundTrip(t *testing.T) {
	raw := interleave([]int16{0, 16384, -16384, 32767, -32768, 7})
	buf, err := ToPlayableBuffer(raw, 24000, 2)
	if err != nil {
		t.Fatalf("ToPlayableBuffer() error: %v", err)
	}
	if got := EncodePCM16(buf); !bytes.Equal(got, raw) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, raw)
	}
}

func TestEncodePCM16Clamps(t *testing.T) {
	buf := &Buffer{SampleRate: 24000, Channels: [][]float32{{2.0, -2.0}}}
	want := interleave([]int16{math.MaxInt16, math.MinInt16})
	if got := EncodePCM16(buf); !bytes.Equal(got, want) {
		t.Errorf("expected clamped samples %v, got %v", want, got)
	}
}

func TestResample(t *testing.T) {
	in := &Buffer{SampleRate: 24000, Channels: [][]float32{{0, 0.5, 1.0}}}

	out, err := Resample(in, 48000)
	if err != nil {
		t.Fatalf("Resample() error: %v", err)
	}
	if out.SampleRate != 48000 {
		t.Errorf("expected 48000 Hz, got %d", out.SampleRate)
	}
	if out.Frames() != 6 {
		t.Fatalf("expected 6 frames, got %d", out.Frames())
	}

	want := []float32{0, 0.25, 0.5, 0.75, 1.0, 1.0}
	for i, w := range want {
		if math.Abs(float64(out.Channels[0][i]-w)) > 1e-6 {
			t.Errorf("frame %d: got %f, want %f", i, out.Channels[0][i], w)
		}
	}
	if in.Duration() != out.Duration() {
		t.Errorf("duration changed: %v -> %v", in.Duration(), out.Duration())
	}
}

func TestResampleSameRate(t *testing.T) {
	in := &Buffer{SampleRate: 48000, Channels: [][]float32{{0.1}}}
	out, err := Resample(in, 48000)
	if err != nil {
		t.Fatalf("Resample() error: %v", err)
	}
	if out != in {
		t.Error("expected the same buffer back when rates match")
	}
	if _, err := Resample(in, 0); err == nil {
		t.Error("expected error for zero rate")
	}
}

func TestRemix(t *testing.T) {
	mono := &Buffer{SampleRate: 24000, Channels: [][]float32{{0.5, -0.5}}}
	stereo, err := Remix(mono, 2)
	if err != nil {
		t.Fatalf("Remix() error: %v", err)
	}
	if stereo.NumChannels() != 2 {
		t.Fatalf("expected 2 channels, got %d", stereo.NumChannels())
	}
	for ch := 0; ch < 2; ch++ {
		if stereo.Channels[ch][0] != 0.5 || stereo.Channels[ch][1] != -0.5 {
			t.Errorf("channel %d not spread from mono: %v", ch, stereo.Channels[ch])
		}
	}

	down, err := Remix(&Buffer{SampleRate: 24000, Channels: [][]float32{{1, 0}, {0, 1}}}, 1)
	if err != nil {
		t.Fatalf("Remix() error: %v", err)
	}
	if down.Channels[0][0] != 0.5 || down.Channels[0][1] != 0.5 {
		t.Errorf("expected averaged mono, got %v", down.Channels[0])
	}

	if _, err := Remix(mono, 0); err == nil {
		t.Error("expected error for zero channels")
	}
}
