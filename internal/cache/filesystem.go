package cache

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"go.trai.ch/zerr"
)

// FilesystemBackend stores one JSON file per key in a flat directory:
// <root>/<key>.json
type FilesystemBackend struct {
	root      string
	logger    *slog.Logger
	writeLock sync.Mutex
}

// NewFilesystemBackend creates a new filesystem-based cache backend.
func NewFilesystemBackend(root string, logger *slog.Logger) *FilesystemBackend {
	if root == "" {
		root = core.CacheRoot()
	}
	return &FilesystemBackend{
		root:   root,
		logger: logging.OrNop(logger).With("component", "cache"),
	}
}

// Root returns the cache directory.
func (b *FilesystemBackend) Root() string {
	return b.root
}

// Path returns the filesystem path for the given key.
func (b *FilesystemBackend) Path(key string) string {
	return filepath.Join(b.root, key+core.CacheExt)
}

// Read returns the cached entry for key or nil if absent or unreadable.
func (b *FilesystemBackend) Read(key string) *Entry {
	path := b.Path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			b.logger.Debug("cache read failed", "path", path, "error", err)
		}
		return nil
	}

	entry, err := Decode(key, data)
	if err != nil {
		b.logger.Debug("ignoring unreadable cache record", "path", path, "error", err)
		return nil
	}
	return entry
}

// EnsureDir creates the cache directory if it does not exist.
func (b *FilesystemBackend) EnsureDir() error {
	if err := os.MkdirAll(b.root, 0o755); err != nil {
		return &core.ConfigError{Path: b.root, Err: err}
	}
	return nil
}

// Write persists the entry atomically.
func (b *FilesystemBackend) Write(entry *Entry) error {
	data, err := Encode(entry)
	if err != nil {
		return err
	}

	b.writeLock.Lock()
	defer b.writeLock.Unlock()

	if err := b.EnsureDir(); err != nil {
		return err
	}

	// Write to temp file first, then rename (atomic)
	path := b.Path(entry.Key)
	tmp, err := os.CreateTemp(b.root, entry.Key+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temp file"), "path", path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to write cache record"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to write cache record"), "path", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to replace cache record"), "path", path)
	}
	return nil
}

// Scan returns every decodable entry, sorted by key.
func (b *FilesystemBackend) Scan() []*Entry {
	files, err := os.ReadDir(b.root)
	if err != nil {
		return nil
	}

	entries := make([]*Entry, 0, len(files))
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != core.CacheExt {
			continue
		}
		key := strings.TrimSuffix(file.Name(), core.CacheExt)
		if entry := b.Read(key); entry != nil {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// Remove deletes the record for key.
func (b *FilesystemBackend) Remove(key string) error {
	b.writeLock.Lock()
	defer b.writeLock.Unlock()

	if err := os.Remove(b.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove cache record"), "key", key)
	}
	return nil
}

// Clear deletes every record file, including unreadable ones.
func (b *FilesystemBackend) Clear() (int, error) {
	b.writeLock.Lock()
	defer b.writeLock.Unlock()

	files, err := os.ReadDir(b.root)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to list cache directory"), "path", b.root)
	}

	removed := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != core.CacheExt {
			continue
		}
		if err := os.Remove(filepath.Join(b.root, file.Name())); err != nil {
			return removed, zerr.With(zerr.Wrap(err, "failed to remove cache record"), "file", file.Name())
		}
		removed++
	}
	return removed, nil
}
