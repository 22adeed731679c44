package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Manager checks memory first, then disk, promoting disk hits to memory.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewManager opens the cache described by config and drops disk entries
// older than config.TTL.
func NewManager(config Config) (*Manager, error) {
	if config.DiskPath == "" {
		return nil, errors.New("cache directory not set")
	}

	disk, err := NewDiskCache(config.DiskPath, config.DiskCapacity, config.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create disk cache: %w", err)
	}
	if config.TTL > 0 {
		if n := disk.RemoveOlderThan(time.Now().Add(-config.TTL)); n > 0 {
			log.Debug("pruned expired speech", "entries", n)
		}
	}

	return &Manager{
		memory: NewMemoryCache(config.MemoryCapacity),
		disk:   disk,
	}, nil
}

// Get looks key up in memory, then on disk.
func (m *Manager) Get(key string) ([]byte, bool) {
	if data, ok := m.memory.Get(key); ok {
		return data, true
	}
	data, ok := m.disk.Get(key)
	if !ok {
		return nil, false
	}
	_ = m.memory.Put(key, data)
	return data, true
}

// Put stores value in both levels. Values too large for one level are kept
// in the other.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("memory cache: %w", err)
	}
	if err := m.disk.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("disk cache: %w", err)
	}
	return nil
}

// Clear empties both levels.
func (m *Manager) Clear() error {
	m.memory.Clear()
	return m.disk.Clear()
}

// Stats returns per-level statistics.
func (m *Manager) Stats() map[Level]Stats {
	return map[Level]Stats{
		LevelMemory: m.memory.Stats(),
		LevelDisk:   m.disk.Stats(),
	}
}

// Close persists the disk index.
func (m *Manager) Close() error {
	if err := m.disk.Close(); err != nil {
		return fmt.Errorf("failed to close disk cache: %w", err)
	}
	return nil
}
