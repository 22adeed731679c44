package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

var (
	// ErrPlayerClosed is returned by Play after Close.
	ErrPlayerClosed = errors.New("player is closed")
	// ErrNothingToPlay is returned for buffers without frames.
	ErrNothingToPlay = errors.New("no audio to play")
)

// Handle controls one started playback.
type Handle interface {
	// Done is closed when playback finishes or is stopped.
	Done() <-chan struct{}
	// Stop ends playback early. Stopping a finished playback is a no-op.
	Stop() error
	// Duration is the length of the audio being played.
	Duration() time.Duration
}

// Output is the platform audio capability: take a decoded buffer and start
// playing it right away.
type Output interface {
	Play(b *Buffer) (Handle, error)
}

// Player is an Output backed by an oto context. Buffers are resampled and
// remixed to the device format before playback.
type Player struct {
	// oto allows a single context per process; it is created once and reused.
	context *oto.Context

	sampleRate int
	channels   int

	volume atomic.Uint64 // float64 bits
	closed atomic.Bool

	mu     sync.Mutex
	active map[*playback]struct{}
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int     // 44100 or 48000 Hz only
	Channels   int     // 1 = mono, 2 = stereo
	BufferSize int     // device buffer size in bytes
	Volume     float64 // 0.0 to 1.0
}

// DefaultPlayerConfig returns the default player configuration. 48 kHz is
// an exact multiple of the 24 kHz speech payloads.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 48000,
		Channels:   1,
		BufferSize: 4096,
		Volume:     1.0,
	}
}

func validateConfig(config PlayerConfig) error {
	if config.SampleRate != 44100 && config.SampleRate != 48000 {
		return fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", config.SampleRate)
	}
	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}
	if config.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", config.Volume)
	}
	return nil
}

// NewPlayer opens the audio device.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(config.BufferSize) * time.Second / time.Duration(config.SampleRate*config.Channels*2),
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	p := &Player{
		context:    ctx,
		sampleRate: config.SampleRate,
		channels:   config.Channels,
		active:     make(map[*playback]struct{}),
	}
	p.volume.Store(math.Float64bits(config.Volume))
	log.Debug("audio player ready", "sample_rate", config.SampleRate, "channels", config.Channels)
	return p, nil
}

// Play converts b to the device format and starts playing it.
func (p *Player) Play(b *Buffer) (Handle, error) {
	if p.closed.Load() {
		return nil, ErrPlayerClosed
	}
	if b == nil || b.Frames() == 0 {
		return nil, ErrNothingToPlay
	}

	out, err := Resample(b, p.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	out, err = Remix(out, p.channels)
	if err != nil {
		return nil, fmt.Errorf("remix: %w", err)
	}

	pb := &playback{
		owner:    p,
		data:     EncodePCM16(out),
		duration: out.Duration(),
		done:     make(chan struct{}),
	}
	pb.player = p.context.NewPlayer(bytes.NewReader(pb.data))
	pb.player.SetVolume(p.Volume())

	p.mu.Lock()
	p.active[pb] = struct{}{}
	p.mu.Unlock()

	pb.player.Play()
	go pb.watch()

	log.Debug("playback started", "duration", pb.duration)
	return pb, nil
}

// SetVolume sets the volume used for new and active playbacks.
func (p *Player) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.volume.Store(math.Float64bits(volume))

	p.mu.Lock()
	defer p.mu.Unlock()
	for pb := range p.active {
		pb.player.SetVolume(volume)
	}
	return nil
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	return math.Float64frombits(p.volume.Load())
}

// Close stops every active playback. The oto context itself has no Close
// in v3 and is left for the garbage collector.
func (p *Player) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	active := make([]*playback, 0, len(p.active))
	for pb := range p.active {
		active = append(active, pb)
	}
	p.mu.Unlock()

	var errs []error
	for _, pb := range active {
		if err := pb.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Player) release(pb *playback) {
	p.mu.Lock()
	delete(p.active, pb)
	p.mu.Unlock()
}

// playback keeps the PCM bytes referenced for as long as oto reads them.
type playback struct {
	owner    *Player
	player   *oto.Player
	data     []byte
	duration time.Duration

	done     chan struct{}
	stopOnce sync.Once
	closeErr error
}

func (pb *playback) Done() <-chan struct{} { return pb.done }

func (pb *playback) Duration() time.Duration { return pb.duration }

func (pb *playback) Stop() error {
	pb.finish()
	return pb.closeErr
}

func (pb *playback) watch() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-pb.done:
			return
		case <-ticker.C:
			if !pb.player.IsPlaying() {
				pb.finish()
				return
			}
		}
	}
}

func (pb *playback) finish() {
	pb.stopOnce.Do(func() {
		pb.player.Pause()
		pb.closeErr = pb.player.Close()
		pb.data = nil
		pb.owner.release(pb)
		close(pb.done)
	})
}
