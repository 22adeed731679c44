package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const indexFile = "cache.index"

// DiskCache stores entries as files, zstd-compressed when that saves space,
// with a gob index of what is on disk.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskCacheEntry

	mu    sync.Mutex
	stats Stats
}

type diskCacheEntry struct {
	Key          string
	FilePath     string
	Size         int64 // on disk
	OriginalSize int64
	Timestamp    time.Time
	LastAccess   time.Time
	Compressed   bool
}

// NewDiskCache creates a disk cache in basePath. A compressionLevel of 0
// stores entries uncompressed.
func NewDiskCache(basePath string, capacity int64, compressionLevel int) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		index:    make(map[string]*diskCacheEntry),
		stats:    Stats{Capacity: capacity},
	}

	if compressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		dc.decoder, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
	}

	// A damaged index only costs us the cached audio.
	if err := dc.loadIndex(); err != nil {
		dc.index = make(map[string]*diskCacheEntry)
	}
	for _, entry := range dc.index {
		dc.size += entry.Size
	}

	return dc, nil
}

// Get retrieves a value from the disk cache.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		dc.dropLocked(key)
		dc.stats.Misses++
		return nil, false
	}

	if entry.Compressed {
		if dc.decoder == nil {
			dc.dropLocked(key)
			dc.stats.Misses++
			return nil, false
		}
		data, err = dc.decoder.DecodeAll(data, nil)
		if err != nil {
			dc.dropLocked(key)
			dc.stats.Misses++
			return nil, false
		}
	}

	entry.LastAccess = time.Now()
	dc.stats.Hits++
	return data, true
}

// Put stores a value in the disk cache.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	data, compressed := value, false
	if dc.encoder != nil && len(value) > 1024 {
		if c := dc.encoder.EncodeAll(value, nil); len(c) < len(value) {
			data, compressed = c, true
		}
	}

	diskSize := int64(len(data))
	if diskSize > dc.capacity {
		return ErrItemTooLarge
	}

	if _, ok := dc.index[key]; ok {
		dc.dropLocked(key)
	}
	for dc.size+diskSize > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	path := filepath.Join(dc.basePath, key+".cache")
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	dc.index[key] = &diskCacheEntry{
		Key:          key,
		FilePath:     path,
		Size:         diskSize,
		OriginalSize: int64(len(value)),
		Timestamp:    now,
		LastAccess:   now,
		Compressed:   compressed,
	}
	dc.size += diskSize
	if err := dc.saveIndex(true); err != nil {
		return fmt.Errorf("failed to save cache index: %w", err)
	}
	return nil
}

// Clear removes all entries from the disk cache.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for key := range dc.index {
		dc.dropLocked(key)
	}
	return dc.saveIndex(false)
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Size = dc.size
	stats.ItemCount = int64(len(dc.index))
	return stats
}

// RemoveOlderThan removes entries written before cutoff.
func (dc *DiskCache) RemoveOlderThan(cutoff time.Time) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	removed := 0
	for key, entry := range dc.index {
		if entry.Timestamp.Before(cutoff) {
			dc.dropLocked(key)
			removed++
		}
	}
	return removed
}

// Close saves the index, keeping entries another process added meanwhile.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.encoder != nil {
		_ = dc.encoder.Close()
	}
	if dc.decoder != nil {
		dc.decoder.Close()
	}
	return dc.saveIndex(true)
}

func (dc *DiskCache) dropLocked(key string) {
	entry, ok := dc.index[key]
	if !ok {
		return
	}
	os.Remove(entry.FilePath) //nolint:errcheck
	dc.size -= entry.Size
	delete(dc.index, key)
}

func (dc *DiskCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range dc.index {
		if oldestKey == "" || entry.LastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastAccess
		}
	}

	if oldestKey != "" {
		dc.dropLocked(oldestKey)
		dc.stats.Evictions++
	}
}

func (dc *DiskCache) loadIndex() error {
	index, err := dc.readIndex()
	if err != nil {
		return err
	}
	dc.index = index
	return nil
}

func (dc *DiskCache) readIndex() (map[string]*diskCacheEntry, error) {
	index := make(map[string]*diskCacheEntry)
	file, err := os.Open(filepath.Join(dc.basePath, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return index, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&index); err != nil {
		return nil, err
	}
	return index, nil
}

// mergeIndexLocked adopts entries written to the shared index by another
// process whose files are still on disk.
func (dc *DiskCache) mergeIndexLocked() {
	onDisk, err := dc.readIndex()
	if err != nil {
		return
	}
	for key, entry := range onDisk {
		if _, ok := dc.index[key]; ok {
			continue
		}
		if _, err := os.Stat(entry.FilePath); err != nil {
			continue
		}
		dc.index[key] = entry
		dc.size += entry.Size
	}
	for dc.size > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}
}

func (dc *DiskCache) saveIndex(merge bool) error {
	if merge {
		dc.mergeIndexLocked()
	}
	indexPath := filepath.Join(dc.basePath, indexFile)

	file, err := os.CreateTemp(dc.basePath, indexFile+".*")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	err = gob.NewEncoder(file).Encode(dc.index)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, indexPath)
}

// writeFileAtomic writes to a temp file first, then renames.
func writeFileAtomic(path string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, path)
}
