package cache

import (
	"log/slog"
	"time"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
)

// Store maps categories to cached word frequencies and enforces expiry.
// It never reports read failures: missing, corrupt and stale records are
// all a miss.
type Store struct {
	backend Backend
	expiry  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithExpiry sets the expiry window.
func WithExpiry(d time.Duration) StoreOption {
	return func(s *Store) { s.expiry = d }
}

// WithClock sets the time source used for timestamps and expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a Store over backend. If backend is nil, uses the
// default FilesystemBackend.
func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		expiry: core.CacheExpiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).With("component", "cache")
	if backend == nil {
		backend = NewFilesystemBackend("", s.logger)
	}
	s.backend = backend
	return s
}

// Expiry returns the expiry window.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Expired reports whether a record written at ts is older than the expiry
// window. A record exactly at the boundary is not expired.
func (s *Store) Expired(ts time.Time) bool {
	return s.now().Sub(ts) > s.expiry
}

// Get returns the cached frequencies for category, or false when there is
// no usable record.
func (s *Store) Get(category string) (map[string]int, bool) {
	key := SanitizeKey(category)
	entry := s.backend.Read(key)
	if entry == nil {
		s.logger.Debug("cache miss", "key", key)
		return nil, false
	}
	if s.Expired(entry.Timestamp) {
		s.logger.Debug("cache expired", "key", key, "timestamp", entry.Timestamp)
		return nil, false
	}
	s.logger.Debug("cache hit", "key", key, "words", len(entry.WordFrequencies))
	return entry.WordFrequencies, true
}

// Put stores freqs for category with the current time, replacing any prior
// record.
func (s *Store) Put(category string, freqs map[string]int) error {
	return s.backend.Write(&Entry{
		Key:             SanitizeKey(category),
		Timestamp:       s.now(),
		WordFrequencies: freqs,
	})
}

// Prepare creates the storage location when the backend needs one.
func (s *Store) Prepare() error {
	if d, ok := s.backend.(interface{ EnsureDir() error }); ok {
		return d.EnsureDir()
	}
	return nil
}

// Scan lists stored records with their expiry status.
func (s *Store) Scan() []ScanResult {
	entries := s.backend.Scan()
	results := make([]ScanResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, ScanResult{
			Key:       e.Key,
			Timestamp: e.Timestamp,
			Words:     len(e.WordFrequencies),
			Expired:   s.Expired(e.Timestamp),
		})
	}
	return results
}

// Remove deletes the record for category.
func (s *Store) Remove(category string) error {
	return s.backend.Remove(SanitizeKey(category))
}

// Clear deletes every record.
func (s *Store) Clear() (int, error) {
	return s.backend.Clear()
}

// Path returns the storage location for category.
func (s *Store) Path(category string) string {
	return s.backend.Path(SanitizeKey(category))
}
