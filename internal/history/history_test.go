package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func entry(i int) Entry {
	return NewEntry(fmt.Sprintf("source %d", i), fmt.Sprintf("target %d", i), "en", "es", time.UnixMilli(int64(i)))
}

func TestInsertNewestFirst(t *testing.T) {
	b := NewMemoryBackend(nil)
	s := NewStore(b)

	for i := 1; i <= 3; i++ {
		if err := s.Insert(entry(i)); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	got := s.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"source 3", "source 2", "source 1"} {
		if got[i].SourceText != want {
			t.Errorf("entry %d: got %q, want %q", i, got[i].SourceText, want)
		}
	}
	if b.Saves() != 3 {
		t.Errorf("expected a write per mutation, got %d writes", b.Saves())
	}
}

func TestInsertCapsAtMaxEntries(t *testing.T) {
	s := NewStore(NewMemoryBackend(nil))

	for i := 1; i <= MaxEntries+1; i++ {
		if err := s.Insert(entry(i)); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	got := s.Entries()
	if len(got) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(got))
	}
	if got[0].SourceText != fmt.Sprintf("source %d", MaxEntries+1) {
		t.Errorf("newest entry not first: %q", got[0].SourceText)
	}
	for _, e := range got {
		if e.SourceText == "source 1" {
			t.Error("oldest entry was not evicted")
		}
	}
}

func TestRemoveByID(t *testing.T) {
	b := NewMemoryBackend(nil)
	s := NewStore(b)
	e1, e2 := entry(1), entry(2)
	_ = s.Insert(e1)
	_ = s.Insert(e2)

	removed, err := s.RemoveByID(e1.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveByID() = %v, %v", removed, err)
	}
	if s.Len() != 1 || s.Entries()[0].ID != e2.ID {
		t.Errorf("unexpected entries after remove: %+v", s.Entries())
	}

	saves := b.Saves()
	removed, err = s.RemoveByID("missing")
	if err != nil || removed {
		t.Errorf("RemoveByID(missing) = %v, %v", removed, err)
	}
	if b.Saves() != saves {
		t.Error("removing an unknown id should not write")
	}

	if _, err := s.Get(e1.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(removed) expected ErrNotFound, got %v", err)
	}
	if got, err := s.Get(e2.ID); err != nil || got.ID != e2.ID {
		t.Errorf("Get() = %+v, %v", got, err)
	}
}

func TestClear(t *testing.T) {
	b := NewMemoryBackend(nil)
	s := NewStore(b)
	_ = s.Insert(entry(1))

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
	data, _ := b.Load()
	if string(data) != "[]" {
		t.Errorf("expected empty array persisted, got %s", data)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing", ""},
		{"garbage", "not json"},
		{"wrong shape", `{"id":"x"}`},
		{"truncated", `[{"id":"x","sourceText":"hel`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(NewMemoryBackend([]byte(tt.data)))
			if s.Len() != 0 {
				t.Errorf("expected empty store, got %d entries", s.Len())
			}
			if err := s.Insert(entry(1)); err != nil {
				t.Errorf("store unusable after malformed load: %v", err)
			}
		})
	}
}

func TestLoadTruncatesOversizedHistory(t *testing.T) {
	entries := make([]Entry, MaxEntries+10)
	for i := range entries {
		entries[i] = entry(i)
	}
	data, _ := json.Marshal(entries)

	s := NewStore(NewMemoryBackend(data))
	if s.Len() != MaxEntries {
		t.Errorf("expected %d entries, got %d", MaxEntries, s.Len())
	}
}

func TestEntryJSONFormat(t *testing.T) {
	e := Entry{
		ID:             "1",
		SourceText:     "Hello",
		TranslatedText: "Hola",
		SourceLang:     "en",
		TargetLang:     "es",
		Timestamp:      1700000000000,
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"id":"1","sourceText":"Hello","translatedText":"Hola","sourceLang":"en","targetLang":"es","timestamp":1700000000000}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
	if !e.Time().Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("Time() = %v", e.Time())
	}
}

func TestSaveErrorSurfaces(t *testing.T) {
	b := NewMemoryBackend(nil)
	s := NewStore(b)
	e := entry(1)
	if err := s.Insert(e); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	b.SaveErr = &StorageError{Backend: "memory", Op: "save", Err: errors.New("disk full")}

	err := s.Insert(entry(2))
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if serr.Op != "save" {
		t.Errorf("expected save op, got %q", serr.Op)
	}

	tests := []struct {
		name string
		op   func() error
	}{
		{"insert", func() error { return s.Insert(entry(3)) }},
		{"remove", func() error {
			removed, err := s.RemoveByID(e.ID)
			if removed {
				t.Error("RemoveByID reported success after a failed write")
			}
			return err
		}},
		{"clear", s.Clear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err == nil {
				t.Fatal("expected error")
			}
			got := s.Entries()
			if len(got) != 1 || got[0].ID != e.ID {
				t.Errorf("in-memory history changed after a failed write: %+v", got)
			}
		})
	}

	data, _ := b.Load()
	var persisted []Entry
	if err := json.Unmarshal(data, &persisted); err != nil || len(persisted) != 1 {
		t.Errorf("persisted history changed: %s", data)
	}
}

func TestBackendsPersistAcrossReopen(t *testing.T) {
	for _, kind := range []string{KindFile, KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", DefaultFilename(kind))

			b, err := Open(kind, path)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			s := NewStore(b)
			if s.Len() != 0 {
				t.Fatalf("fresh store not empty")
			}
			e := entry(7)
			if err := s.Insert(e); err != nil {
				t.Fatalf("Insert() error: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			b, err = Open(kind, path)
			if err != nil {
				t.Fatalf("reopen error: %v", err)
			}
			s = NewStore(b)
			defer s.Close()

			got := s.Entries()
			if len(got) != 1 || got[0] != e {
				t.Errorf("expected %+v after reopen, got %+v", e, got)
			}
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	a := NewStore(NewFileBackend(path))
	b := NewStore(NewFileBackend(path))

	_ = a.Insert(entry(1))
	if b.Len() != 0 {
		t.Fatal("second store should not see writes before reload")
	}
	b.Reload()
	if b.Len() != 1 {
		t.Errorf("expected 1 entry after reload, got %d", b.Len())
	}
}
