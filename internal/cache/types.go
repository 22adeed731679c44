package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")
)

// Level represents the cache tier
type Level int

const (
	// LevelMemory is the in-process LRU.
	LevelMemory Level = iota
	// LevelDisk is the persistent store.
	LevelDisk
)

func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "memory"
	case LevelDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache counters.
type Stats struct {
	Capacity  int64
	Size      int64
	ItemCount int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / (hits + misses).
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// Config holds configuration for a Manager.
type Config struct {
	MemoryCapacity   int64         // bytes
	DiskCapacity     int64         // bytes
	DiskPath         string        // directory for cache files
	CompressionLevel int           // zstd level, 0 disables compression
	TTL              time.Duration // disk entries older than this are dropped on open
}

// DefaultConfig returns the configuration used for the speech cache rooted
// at dir.
func DefaultConfig(dir string) Config {
	return Config{
		MemoryCapacity:   32 * 1024 * 1024,
		DiskCapacity:     256 * 1024 * 1024,
		DiskPath:         filepath.Join(dir, "speech"),
		CompressionLevel: 3,
		TTL:              30 * 24 * time.Hour,
	}
}

// Key derives the cache key for speech of text in voice.
func Key(voice, text string) string {
	hash := sha256.Sum256([]byte(voice + "\x00" + text))
	return hex.EncodeToString(hash[:16])
}
