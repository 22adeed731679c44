package audio

import (
	"sync"
	"time"
)

// MockOutput is an Output that plays nothing. It records every buffer it
// is handed and finishes each playback immediately, or after the buffer's
// duration scaled by DelayFactor when that is positive.
type MockOutput struct {
	// DelayFactor scales simulated playback time; 0 finishes at once.
	DelayFactor float64
	// Err, when set, is returned from Play.
	Err error

	mu     sync.Mutex
	played []*Buffer
}

// NewMockOutput returns a MockOutput that completes playback instantly.
func NewMockOutput() *MockOutput {
	return &MockOutput{}
}

// Play records b and returns a simulated playback.
func (m *MockOutput) Play(b *Buffer) (Handle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if b == nil || b.Frames() == 0 {
		return nil, ErrNothingToPlay
	}

	m.mu.Lock()
	m.played = append(m.played, b)
	m.mu.Unlock()

	h := &mockHandle{duration: b.Duration(), done: make(chan struct{})}
	if m.DelayFactor <= 0 {
		h.finish()
		return h, nil
	}
	h.timer = time.AfterFunc(time.Duration(float64(h.duration)*m.DelayFactor), h.finish)
	return h, nil
}

// Played returns the buffers passed to Play so far.
func (m *MockOutput) Played() []*Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Buffer, len(m.played))
	copy(out, m.played)
	return out
}

type mockHandle struct {
	duration time.Duration
	timer    *time.Timer
	done     chan struct{}
	once     sync.Once
}

func (h *mockHandle) Done() <-chan struct{} { return h.done }

func (h *mockHandle) Duration() time.Duration { return h.duration }

func (h *mockHandle) Stop() error {
	if h.timer != nil {
		h.timer.Stop()
	}
	h.finish()
	return nil
}

func (h *mockHandle) finish() {
	h.once.Do(func() { close(h.done) })
}
