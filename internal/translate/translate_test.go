package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/lang"
)

// fakeStreamer replays canned fragments and records every request.
type fakeStreamer struct {
	fragments []string
	err       error
	requests  []Attempt
}

func (f *fakeStreamer) StreamTranslate(_ context.Context, text, source, target string, onFragment func(string)) error {
	f.requests = append(f.requests, Attempt{Text: text, Source: source, Target: target})
	for _, frag := range f.fragments {
		onFragment(frag)
	}
	return f.err
}

// run drains one attempt through the controller the way the UI does.
func run(t *testing.T, c *Controller, s Streamer, a Attempt) {
	t.Helper()
	for ev := range Stream(context.Background(), s, a) {
		if ev.Done {
			c.Finish(ev.Gen, ev.Err)
			continue
		}
		c.Fragment(ev.Gen, ev.Fragment)
	}
}

func newTestController(t *testing.T) (*Controller, *history.Store) {
	t.Helper()
	store := history.NewStore(history.NewMemoryBackend(nil))
	at := time.UnixMilli(1700000000000)
	return NewController(store, "en", "es", WithClock(func() time.Time { return at })), store
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"concrete source", "en", "from en to es."},
		{"auto source", lang.Auto, "from automatically detected to es."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPrompt("Hello", tt.source, "es")
			for _, want := range []string{tt.want, "ONLY the translated text", "Maintain the original tone", `"Hello"`} {
				if !strings.Contains(p, want) {
					t.Errorf("prompt missing %q:\n%s", want, p)
				}
			}
		})
	}
}

// Scenario A: fragments are concatenated and the entry recorded.
func TestControllerTranslates(t *testing.T) {
	c, store := newTestController(t)
	s := &fakeStreamer{fragments: []string{"Hol", "a"}}

	ticket, ok := c.SetText("Hello")
	if !ok {
		t.Fatal("expected a ticket for non-empty text")
	}
	if ticket.Delay != DefaultDebounce {
		t.Errorf("expected %v delay, got %v", DefaultDebounce, ticket.Delay)
	}
	if c.State() != StatePending {
		t.Errorf("expected pending, got %v", c.State())
	}

	a, ok := c.Fire(ticket.Gen)
	if !ok {
		t.Fatal("Fire() rejected the current ticket")
	}
	if !c.Translating() {
		t.Error("expected translating flag while streaming")
	}
	run(t, c, s, a)

	if c.Translation() != "Hola" {
		t.Errorf("expected Hola, got %q", c.Translation())
	}
	if c.State() != StateDone {
		t.Errorf("expected done, got %v", c.State())
	}
	if len(s.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(s.requests))
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.SourceText != "Hello" || e.TranslatedText != "Hola" || e.SourceLang != "en" || e.TargetLang != "es" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Timestamp != 1700000000000 || e.ID == "" {
		t.Errorf("unexpected entry metadata: %+v", e)
	}
}

func TestControllerRapidEdits(t *testing.T) {
	c, _ := newTestController(t)
	s := &fakeStreamer{fragments: []string{"ok"}}

	var tickets []Ticket
	for _, text := range []string{"H", "He", "Hel", "Hell", "Hello"} {
		ticket, ok := c.SetText(text)
		if !ok {
			t.Fatalf("SetText(%q) scheduled nothing", text)
		}
		tickets = append(tickets, ticket)
	}

	for _, ticket := range tickets[:len(tickets)-1] {
		if _, ok := c.Fire(ticket.Gen); ok {
			t.Errorf("superseded ticket %d fired", ticket.Gen)
		}
	}
	a, ok := c.Fire(tickets[len(tickets)-1].Gen)
	if !ok {
		t.Fatal("latest ticket did not fire")
	}
	run(t, c, s, a)

	if len(s.requests) != 1 || s.requests[0].Text != "Hello" {
		t.Errorf("expected only the final edit requested, got %+v", s.requests)
	}
}

func TestControllerHistoryThreshold(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"abc", 0},
		{"abcd", 1},
		{"日本語", 0},
		{"日本語だ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, store := newTestController(t)
			ticket, _ := c.SetText(tt.text)
			a, _ := c.Fire(ticket.Gen)
			run(t, c, &fakeStreamer{fragments: []string{"x"}}, a)

			if store.Len() != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, store.Len())
			}
		})
	}
}

// Scenario B: clearing the text clears the display and schedules nothing.
func TestControllerClearText(t *testing.T) {
	c, _ := newTestController(t)
	ticket, _ := c.SetText("Hello")
	a, _ := c.Fire(ticket.Gen)
	run(t, c, &fakeStreamer{fragments: []string{"Hola"}}, a)

	for _, blank := range []string{"", "   "} {
		if _, ok := c.SetText(blank); ok {
			t.Errorf("SetText(%q) scheduled an attempt", blank)
		}
		if c.Translation() != "" {
			t.Errorf("expected empty translation, got %q", c.Translation())
		}
		if c.State() != StateIdle {
			t.Errorf("expected idle, got %v", c.State())
		}
	}
	if _, ok := c.Fire(ticket.Gen); ok {
		t.Error("old ticket fired after clearing")
	}
}

// Scenario C: a failed request shows the error message and records nothing.
func TestControllerFailure(t *testing.T) {
	c, store := newTestController(t)
	ticket, _ := c.SetText("Hello")
	a, _ := c.Fire(ticket.Gen)
	run(t, c, &fakeStreamer{fragments: []string{"Ho"}, err: errors.New("quota exceeded")}, a)

	if c.Translation() != ErrorMessage {
		t.Errorf("expected error message, got %q", c.Translation())
	}
	if c.State() != StateFailed {
		t.Errorf("expected failed, got %v", c.State())
	}
	if store.Len() != 0 {
		t.Errorf("expected no history, got %d entries", store.Len())
	}

	if _, ok := c.SetText("Hello again"); !ok {
		t.Error("controller should recover after failure")
	}
}

// Scenario D: 51 translations leave the newest 50.
func TestControllerHistoryBound(t *testing.T) {
	c, store := newTestController(t)
	s := &fakeStreamer{fragments: []string{"t"}}

	for i := 1; i <= history.MaxEntries+1; i++ {
		ticket, ok := c.SetText(fmt.Sprintf("text %d", i))
		if !ok {
			t.Fatalf("edit %d scheduled nothing", i)
		}
		a, _ := c.Fire(ticket.Gen)
		run(t, c, s, a)
	}

	entries := store.Entries()
	if len(entries) != history.MaxEntries {
		t.Fatalf("expected %d entries, got %d", history.MaxEntries, len(entries))
	}
	if entries[0].SourceText != "text 51" {
		t.Errorf("expected newest first, got %q", entries[0].SourceText)
	}
	for _, e := range entries {
		if e.SourceText == "text 1" {
			t.Error("oldest entry still present")
		}
	}
}

func TestControllerDiscardsStaleResults(t *testing.T) {
	c, store := newTestController(t)

	first, _ := c.SetText("first text")
	a1, _ := c.Fire(first.Gen)
	c.Fragment(a1.Gen, "prim")

	second, _ := c.SetText("second text")
	if c.Fragment(a1.Gen, "ero") {
		t.Error("stale fragment applied")
	}
	if _, applied := c.Finish(a1.Gen, nil); applied {
		t.Error("stale completion applied")
	}
	if store.Len() != 0 {
		t.Error("stale completion recorded history")
	}

	a2, ok := c.Fire(second.Gen)
	if !ok {
		t.Fatal("current ticket did not fire")
	}
	if c.Translation() != "" {
		t.Errorf("streaming should start from an empty display, got %q", c.Translation())
	}
	c.Fragment(a2.Gen, "segundo")
	entry, applied := c.Finish(a2.Gen, nil)
	if !applied || entry == nil || entry.TranslatedText != "segundo" {
		t.Errorf("Finish() = %+v, %v", entry, applied)
	}
}

func TestControllerLanguageChangeReschedules(t *testing.T) {
	c, _ := newTestController(t)
	c.SetText("Hello")

	if _, ok := c.SetTarget("es"); ok {
		t.Error("unchanged target should not reschedule")
	}
	ticket, ok := c.SetTarget("fr")
	if !ok {
		t.Fatal("target change did not reschedule")
	}
	a, _ := c.Fire(ticket.Gen)
	if a.Target != "fr" {
		t.Errorf("expected attempt to fr, got %q", a.Target)
	}

	c2, _ := newTestController(t)
	if _, ok := c2.SetSource(lang.Auto); ok {
		t.Error("language change with empty text should not schedule")
	}
}

func TestControllerSwap(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantSwap   bool
		wantSource string
		wantTarget string
		wantText   string
		wantTrans  string
	}{
		{"concrete source", "en", true, "es", "en", "Hola", "Hello"},
		{"auto source", lang.Auto, false, lang.Auto, "es", "Hello", "Hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(nil, tt.source, "es")
			ticket, _ := c.SetText("Hello")
			a, _ := c.Fire(ticket.Gen)
			run(t, c, &fakeStreamer{fragments: []string{"Hola"}}, a)
			gen := c.Generation()

			_, ok := c.Swap()
			if ok != tt.wantSwap {
				t.Errorf("Swap() = %v, want %v", ok, tt.wantSwap)
			}
			if c.Source() != tt.wantSource || c.Target() != tt.wantTarget {
				t.Errorf("languages = %s/%s, want %s/%s", c.Source(), c.Target(), tt.wantSource, tt.wantTarget)
			}
			if c.Text() != tt.wantText || c.Translation() != tt.wantTrans {
				t.Errorf("texts = %q/%q, want %q/%q", c.Text(), c.Translation(), tt.wantText, tt.wantTrans)
			}
			if !tt.wantSwap && (c.Generation() != gen || c.State() != StateDone) {
				t.Error("disallowed swap changed state")
			}
		})
	}
}

func TestStreamSkipsEmptyFragments(t *testing.T) {
	s := &fakeStreamer{fragments: []string{"a", "", "b"}}
	var got []string
	var done int
	for ev := range Stream(context.Background(), s, Attempt{Gen: 7, Text: "x"}) {
		if ev.Gen != 7 {
			t.Errorf("event carries gen %d", ev.Gen)
		}
		if ev.Done {
			done++
			continue
		}
		got = append(got, ev.Fragment)
	}
	if strings.Join(got, "|") != "a|b" || done != 1 {
		t.Errorf("got fragments %v and %d done events", got, done)
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateIdle:      "idle",
		StatePending:   "pending",
		StateStreaming: "streaming",
		StateDone:      "done",
		StateFailed:    "failed",
		State(99):      "unknown",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
