package cache

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStoreRoundTrip(t *testing.T) {
	now := time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	store := NewStore(NewMemoryBackend(), WithClock(fixedClock(now)))

	freqs := map[string]int{"energy": 3, "mass": 2, "café": 1}
	require.NoError(t, store.Put("Physics", freqs))

	got, ok := store.Get("Physics")
	require.True(t, ok)
	assert.Equal(t, freqs, got)
}

func TestStoreRoundTripFilesystem(t *testing.T) {
	store := NewStore(NewFilesystemBackend(t.TempDir(), nil))

	freqs := map[string]int{"pianist": 4, "composer": 9}
	require.NoError(t, store.Put("Jazz musicians", freqs))

	got, ok := store.Get("Jazz musicians")
	require.True(t, ok)
	assert.Equal(t, freqs, got)
	assert.Equal(t, "Jazz_musicians.json", filepath.Base(store.Path("Jazz musicians")))
}

func TestStoreEmptyFrequencies(t *testing.T) {
	store := NewStore(NewMemoryBackend())

	require.NoError(t, store.Put("Empty", map[string]int{}))

	got, ok := store.Get("Empty")
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestStoreExpiry(t *testing.T) {
	written := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"fresh", time.Hour, true},
		{"one second before boundary", week - time.Second, true},
		{"exactly at boundary", week, true},
		{"one second past boundary", week + time.Second, false},
		{"ten days old", 10 * 24 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			backend.Seed(&Entry{
				Key:             "X",
				Timestamp:       written,
				WordFrequencies: map[string]int{"zebra": 1},
			})

			store := NewStore(backend, WithClock(fixedClock(written.Add(tt.age))))
			_, ok := store.Get("X")
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestStoreCustomExpiry(t *testing.T) {
	written := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	backend := NewMemoryBackend()
	backend.Seed(&Entry{Key: "X", Timestamp: written, WordFrequencies: map[string]int{}})

	store := NewStore(backend, WithExpiry(time.Hour), WithClock(fixedClock(written.Add(2*time.Hour))))
	assert.Equal(t, time.Hour, store.Expiry())

	_, ok := store.Get("X")
	assert.False(t, ok)
}

func TestStoreCorruptRecordIsMiss(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SeedRaw("Broken", []byte(`{"timestamp": "2024-07-15T10:30:00", "word_frequencies": `))

	store := NewStore(backend)
	got, ok := store.Get("Broken")
	assert.False(t, ok)
	assert.Nil(t, got)

	// A successful write replaces the corrupt record
	require.NoError(t, store.Put("Broken", map[string]int{"fixed": 1}))
	got, ok = store.Get("Broken")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"fixed": 1}, got)
}

func TestStoreSanitizesKeys(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend)

	require.NoError(t, store.Put("C++", map[string]int{"compiler": 1}))

	// "C++" and "C__" share a record
	got, ok := store.Get("C__")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"compiler": 1}, got)
	assert.NotNil(t, backend.Read("C__"))
	assert.Equal(t, "memory://C__", store.Path("C++"))
}

func TestStoreScan(t *testing.T) {
	now := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	backend := NewMemoryBackend()
	backend.Seed(
		&Entry{Key: "Old", Timestamp: now.Add(-10 * 24 * time.Hour), WordFrequencies: map[string]int{"a": 1}},
		&Entry{Key: "New", Timestamp: now.Add(-time.Hour), WordFrequencies: map[string]int{"b": 1, "c": 2}},
	)
	backend.SeedRaw("Junk", []byte("not json"))

	store := NewStore(backend, WithClock(fixedClock(now)))
	results := store.Scan()

	require.Len(t, results, 2)
	assert.Equal(t, "New", results[0].Key)
	assert.Equal(t, 2, results[0].Words)
	assert.False(t, results[0].Expired)
	assert.Equal(t, "Old", results[1].Key)
	assert.True(t, results[1].Expired)
}

func TestStoreRemoveAndClear(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	for i := range 3 {
		require.NoError(t, store.Put(fmt.Sprintf("Category %d", i), map[string]int{"word": i}))
	}

	require.NoError(t, store.Remove("Category 0"))
	_, ok := store.Get("Category 0")
	assert.False(t, ok)

	n, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, store.Scan())
}

func TestStorePrepare(t *testing.T) {
	// Memory backend has nothing to prepare
	require.NoError(t, NewStore(NewMemoryBackend()).Prepare())

	dir := t.TempDir() + "/nested/cache"
	store := NewStore(NewFilesystemBackend(dir, nil))
	require.NoError(t, store.Prepare())
	require.NoError(t, store.Prepare())
	assert.DirExists(t, dir)
}
