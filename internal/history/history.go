// Package history keeps the bounded, newest-first log of completed
// translations and persists it through a pluggable backend.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// MaxEntries is the most entries the store retains.
const MaxEntries = 50

// StorageKey names the single persisted record holding the history.
const StorageKey = "translation_history"

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("history entry not found")

// Entry is one completed translation.
type Entry struct {
	ID             string `json:"id"             yaml:"id"`
	SourceText     string `json:"sourceText"     yaml:"source_text"`
	TranslatedText string `json:"translatedText" yaml:"translated_text"`
	SourceLang     string `json:"sourceLang"     yaml:"source_lang"`
	TargetLang     string `json:"targetLang"     yaml:"target_lang"`
	Timestamp      int64  `json:"timestamp"      yaml:"timestamp"` // epoch millis
}

// NewEntry creates an entry with a fresh id.
func NewEntry(sourceText, translatedText, sourceLang, targetLang string, at time.Time) Entry {
	return Entry{
		ID:             uuid.NewString(),
		SourceText:     sourceText,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Timestamp:      at.UnixMilli(),
	}
}

// Time returns the entry's timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Store is the sole owner of the history sequence. Every mutation writes
// the whole sequence to the backend and only takes effect in memory once
// the write succeeded.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	backend Backend
}

// NewStore loads the persisted history from backend. Missing or malformed
// data yields an empty store.
func NewStore(backend Backend) *Store {
	s := &Store{backend: backend}
	s.entries = s.load()
	return s
}

func (s *Store) load() []Entry {
	data, err := s.backend.Load()
	if err != nil {
		log.Warn("could not load history, starting empty", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn("discarding malformed history", "error", err)
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Reload replaces the in-memory sequence with the persisted one. It is used
// when another process changed the backing record.
func (s *Store) Reload() {
	entries := s.load()
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// Insert prepends e and drops the oldest entries beyond MaxEntries.
func (s *Store) Insert(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, min(len(s.entries)+1, MaxEntries))
	entries = append(entries, e)
	for _, old := range s.entries {
		if len(entries) == MaxEntries {
			break
		}
		entries = append(entries, old)
	}
	return s.commitLocked(entries)
}

// RemoveByID removes the entry with id. It reports whether an entry was
// removed; unknown ids leave the store untouched and write nothing.
func (s *Store) RemoveByID(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		entries := make([]Entry, 0, len(s.entries)-1)
		entries = append(entries, s.entries[:i]...)
		entries = append(entries, s.entries[i+1:]...)
		if err := s.commitLocked(entries); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Clear empties the store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked([]Entry{})
}

// Entries returns a copy of the sequence, newest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry with id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// commitLocked persists entries and, on success, makes them current.
func (s *Store) commitLocked(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		log.Error("could not persist history", "error", err)
		return err
	}
	s.entries = entries
	return nil
}
