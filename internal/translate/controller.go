package translate

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/lang"
)

// DefaultDebounce is the quiescence window after the last edit.
const DefaultDebounce = 800 * time.Millisecond

// MinHistoryLength is the source length, in characters, a completed
// translation must exceed to be recorded.
const MinHistoryLength = 3

// Recorder receives completed translations.
type Recorder interface {
	Insert(e history.Entry) error
}

// Ticket identifies a scheduled attempt. The caller fires it after Delay.
type Ticket struct {
	Gen   uint64
	Delay time.Duration
}

// Attempt is a request the caller should stream.
type Attempt struct {
	Gen    uint64
	Text   string
	Source string
	Target string
}

// Controller debounces edits and applies streamed results. It holds the
// session state and is driven by a single event loop; it does no I/O of its
// own apart from handing finished translations to the Recorder.
//
// Every qualifying change bumps a generation counter. Results carrying an
// older generation are discarded, so a superseded request may still
// complete but never reaches the display.
type Controller struct {
	recorder Recorder
	delay    time.Duration
	now      func() time.Time

	sm  *stateMachine
	gen uint64

	text        string
	translation string
	source      string
	target      string
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the quiescence window.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithClock overrides the timestamp source for history entries.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller with the given initial languages.
// recorder may be nil.
func NewController(recorder Recorder, source, target string, opts ...Option) *Controller {
	c := &Controller{
		recorder: recorder,
		delay:    DefaultDebounce,
		now:      time.Now,
		sm:       newStateMachine(),
		source:   source,
		target:   target,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sm.onEnter[StateStreaming] = func() { c.translation = "" }
	c.sm.onEnter[StateIdle] = func() { c.translation = "" }
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.sm.current }

// Text returns the source text.
func (c *Controller) Text() string { return c.text }

// Translation returns the displayed translation.
func (c *Controller) Translation() string { return c.translation }

// Source returns the source language code.
func (c *Controller) Source() string { return c.source }

// Target returns the target language code.
func (c *Controller) Target() string { return c.target }

// Translating reports whether a request is in flight for the latest edit.
func (c *Controller) Translating() bool { return c.sm.current == StateStreaming }

// Generation returns the current generation.
func (c *Controller) Generation() uint64 { return c.gen }

// Delay returns the quiescence window.
func (c *Controller) Delay() time.Duration { return c.delay }

// SetText records an edit of the source text.
func (c *Controller) SetText(text string) (Ticket, bool) {
	return c.Update(text, c.source, c.target)
}

// SetSource records a change of the source language.
func (c *Controller) SetSource(code string) (Ticket, bool) {
	return c.Update(c.text, code, c.target)
}

// SetTarget records a change of the target language.
func (c *Controller) SetTarget(code string) (Ticket, bool) {
	return c.Update(c.text, c.source, code)
}

// Update applies an observed change. When anything changed and the text is
// not blank, any pending or in-flight attempt is superseded and a new
// ticket is returned for the caller to fire after Delay. Blank text clears
// the translation immediately and schedules nothing.
func (c *Controller) Update(text, source, target string) (Ticket, bool) {
	if text == c.text && source == c.source && target == c.target {
		return Ticket{}, false
	}
	c.text, c.source, c.target = text, source, target
	c.gen++

	if strings.TrimSpace(text) == "" {
		c.sm.transition(StateIdle)
		log.Debug("translation cleared", "gen", c.gen)
		return Ticket{}, false
	}

	c.sm.transition(StatePending)
	return Ticket{Gen: c.gen, Delay: c.delay}, true
}

// Fire starts the attempt for ticket gen. It returns false when the ticket
// was superseded by a later change.
func (c *Controller) Fire(gen uint64) (Attempt, bool) {
	if gen != c.gen || c.sm.current != StatePending {
		return Attempt{}, false
	}
	if !c.sm.transition(StateStreaming) {
		return Attempt{}, false
	}
	log.Debug("translation requested", "gen", gen, "from", c.source, "to", c.target)
	return Attempt{Gen: gen, Text: c.text, Source: c.source, Target: c.target}, true
}

// Fragment appends a streamed fragment. Stale fragments are dropped.
func (c *Controller) Fragment(gen uint64, fragment string) bool {
	if gen != c.gen || c.sm.current != StateStreaming {
		return false
	}
	c.translation += fragment
	return true
}

// Finish completes the attempt for gen. On success the translation is
// recorded when the source text is long enough; on failure the display
// shows ErrorMessage. It returns the recorded entry, if any, and whether
// the result was applied.
func (c *Controller) Finish(gen uint64, err error) (*history.Entry, bool) {
	if gen != c.gen || c.sm.current != StateStreaming {
		log.Debug("discarding stale translation", "gen", gen, "current", c.gen)
		return nil, false
	}

	if err != nil {
		log.Error("translation failed", "error", err)
		c.sm.transition(StateFailed)
		c.translation = ErrorMessage
		return nil, true
	}

	c.sm.transition(StateDone)
	if utf8.RuneCountInString(c.text) <= MinHistoryLength {
		return nil, true
	}

	entry := history.NewEntry(c.text, c.translation, c.source, c.target, c.now())
	if c.recorder != nil {
		if err := c.recorder.Insert(entry); err != nil {
			log.Error("could not record translation", "error", err)
		}
	}
	return &entry, true
}

// CanSwap reports whether the languages can be exchanged.
func (c *Controller) CanSwap() bool {
	return c.source != lang.Auto
}

// Swap exchanges both language selections and both texts. It does nothing
// while the source is automatic detection. The swapped text is a new edit,
// so a ticket is returned when it is not blank.
func (c *Controller) Swap() (Ticket, bool) {
	if !c.CanSwap() {
		return Ticket{}, false
	}
	text, translation := c.translation, c.text
	t, ok := c.Update(text, c.target, c.source)
	if ok {
		c.translation = translation
	}
	return t, ok
}
