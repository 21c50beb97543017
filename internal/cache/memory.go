package cache

import (
	"sort"
	"sync"
)

// MemoryBackend is an in-memory cache backend for testing. Records are
// kept in encoded form so reads go through the same decoding as files.
type MemoryBackend struct {
	records map[string][]byte
	mu      sync.RWMutex
	writes  int
}

// NewMemoryBackend creates a new in-memory cache backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string][]byte),
	}
}

// Path returns a dummy path for the given key.
func (b *MemoryBackend) Path(key string) string {
	return "memory://" + key
}

// Read returns the cached entry for key or nil if absent or unreadable.
func (b *MemoryBackend) Read(key string) *Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.records[key]
	if !ok {
		return nil
	}
	entry, err := Decode(key, data)
	if err != nil {
		return nil
	}
	return entry
}

// Write persists the entry.
func (b *MemoryBackend) Write(entry *Entry) error {
	data, err := Encode(entry)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[entry.Key] = data
	b.writes++
	return nil
}

// Scan returns every decodable entry, sorted by key.
func (b *MemoryBackend) Scan() []*Entry {
	b.mu.RLock()
	keys := make([]string, 0, len(b.records))
	for k := range b.records {
		keys = append(keys, k)
	}
	b.mu.RUnlock()

	sort.Strings(keys)
	entries := make([]*Entry, 0, len(keys))
	for _, k := range keys {
		if entry := b.Read(k); entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Remove deletes the record for key.
func (b *MemoryBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, key)
	return nil
}

// Clear deletes every record.
func (b *MemoryBackend) Clear() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.records)
	b.records = make(map[string][]byte)
	return n, nil
}

// Writes returns how many times Write succeeded (for testing).
func (b *MemoryBackend) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}

// SeedRaw stores raw record bytes under key (for testing).
func (b *MemoryBackend) SeedRaw(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[key] = append([]byte(nil), data...)
}

// Seed adds entries directly (for testing).
func (b *MemoryBackend) Seed(entries ...*Entry) {
	for _, entry := range entries {
		data, err := Encode(entry)
		if err != nil {
			continue
		}
		b.SeedRaw(entry.Key, data)
	}
}
