package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"go.trai.ch/zerr"
)

// Analyzer computes word frequencies for a category from the remote service.
type Analyzer interface {
	Analyze(ctx context.Context, category string) (map[string]int, error)
}

// FetchOptions alter the cache protocol for one request.
type FetchOptions struct {
	Refresh   bool // skip the cache check and always recompute
	CacheOnly bool // never call the analyzer; a miss is ErrNotCached
}

// Result is the outcome of one category request.
type Result struct {
	Category    string
	Key         string
	Frequencies map[string]int
	FromCache   bool
}

// Manager orchestrates the cache protocol around an Analyzer.
//
// Per request: check the store; on a hit return the stored frequencies;
// on a miss run the analyzer and write its result back. A failed analysis
// writes nothing.
type Manager struct {
	analyzer Analyzer
	store    *Store
	logger   *slog.Logger
	quiet    bool
}

// NewManager creates a new cache manager. If store is nil, uses a Store
// over the default FilesystemBackend.
func NewManager(analyzer Analyzer, store *Store, logger *slog.Logger, quiet bool) *Manager {
	if store == nil {
		store = NewStore(nil, WithLogger(logger))
	}
	return &Manager{
		analyzer: analyzer,
		store:    store,
		logger:   logging.OrNop(logger).With("component", "manager"),
		quiet:    quiet,
	}
}

// Store returns the underlying store.
func (m *Manager) Store() *Store {
	return m.store
}

// AnalyzeOrLoad returns the word frequencies for category, from a fresh
// cache record when one exists, otherwise freshly computed and cached.
func (m *Manager) AnalyzeOrLoad(ctx context.Context, category string) (map[string]int, error) {
	res, err := m.Fetch(ctx, category, FetchOptions{})
	if err != nil {
		return nil, err
	}
	return res.Frequencies, nil
}

// Fetch runs the cache protocol for category.
func (m *Manager) Fetch(ctx context.Context, category string, opts FetchOptions) (*Result, error) {
	if strings.TrimSpace(category) == "" {
		return nil, core.ErrCategoryRequired
	}

	if err := m.store.Prepare(); err != nil {
		return nil, err
	}

	res := &Result{Category: category, Key: SanitizeKey(category)}

	if !opts.Refresh {
		if freqs, ok := m.store.Get(category); ok {
			core.ProgressPrint("Using cached results", m.quiet)
			res.Frequencies = freqs
			res.FromCache = true
			return res, nil
		}
	}

	if opts.CacheOnly {
		return nil, core.Annotate(core.ErrNotCached, "category", category)
	}

	core.ProgressPrint("Cache not found or expired, fetching fresh data...", m.quiet)

	freqs, err := m.analyzer.Analyze(ctx, category)
	if err != nil {
		return nil, core.Annotate(err, "category", category)
	}

	if err := m.store.Put(category, freqs); err != nil {
		return nil, core.Annotate(zerr.Wrap(err, "failed to save results"), "path", m.store.Path(category))
	}
	m.logger.Debug("cached results", "key", res.Key, "words", len(freqs))

	res.Frequencies = freqs
	return res, nil
}

// String describes where a result came from.
func (r *Result) String() string {
	src := "fresh"
	if r.FromCache {
		src = "cached"
	}
	return fmt.Sprintf("%s (%s, %d words)", r.Category, src, len(r.Frequencies))
}
