package history

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Backend persists the serialized history as a single record.
type Backend interface {
	// Load returns the stored record, or nil when nothing was stored yet.
	Load() ([]byte, error)
	// Save replaces the stored record.
	Save(data []byte) error
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// StorageError represents errors accessing the persisted history.
type StorageError struct {
	Backend string
	Op      string // "open", "load", "save"
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s backend: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Open creates the backend of the given kind rooted at path.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(path), nil
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q (use %s or %s)", kind, KindFile, KindSQLite)
	}
}

// DefaultFilename returns the file name used for kind inside the data
// directory.
func DefaultFilename(kind string) string {
	if kind == KindSQLite {
		return "history.db"
	}
	return "history.json"
}

// FileBackend stores the record as a JSON file, replaced atomically.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file the record lives in.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Backend: KindFile, Op: "load", Err: err}
	}
	return data, nil
}

func (b *FileBackend) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return &StorageError{Backend: KindFile, Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".history-*")
	if err != nil {
		return &StorageError{Backend: KindFile, Op: "save", Err: err}
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StorageError{Backend: KindFile, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Backend: KindFile, Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return &StorageError{Backend: KindFile, Op: "save", Err: err}
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }

// SQLiteBackend stores the record under StorageKey in a key/value table.
type SQLiteBackend struct {
	db *sql.DB
}

const createKVTable = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Backend: KindSQLite, Op: "open", Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Backend: KindSQLite, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Backend: KindSQLite, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, &StorageError{Backend: KindSQLite, Op: "open", Err: err}
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Load() ([]byte, error) {
	var value string
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Backend: KindSQLite, Op: "load", Err: err}
	}
	return []byte(value), nil
}

func (b *SQLiteBackend) Save(data []byte) error {
	_, err := b.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		StorageKey, string(data),
	)
	if err != nil {
		return &StorageError{Backend: KindSQLite, Op: "save", Err: err}
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// MemoryBackend keeps the record in memory.
type MemoryBackend struct {
	mu    sync.Mutex
	data  []byte
	saves int
	// SaveErr, when set, is returned from Save.
	SaveErr error
}

// NewMemoryBackend returns a backend preloaded with data.
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{data: data}
}

func (b *MemoryBackend) Load() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data, nil
}

func (b *MemoryBackend) Save(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SaveErr != nil {
		return b.SaveErr
	}
	b.data = append([]byte(nil), data...)
	b.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func (b *MemoryBackend) Close() error { return nil }
