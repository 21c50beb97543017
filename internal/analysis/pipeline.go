// Package analysis computes word frequencies for a category: enumerate its
// articles, fetch each extract, normalize the text and fold the words into
// a running count.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"github.com/colthorp/wikifreq/internal/text"
	"golang.org/x/sync/errgroup"
)

// Frequencies maps a word to the number of times it occurs.
type Frequencies = map[string]int

// Source provides category listings and article text. *api.WikiAPI
// implements it.
type Source interface {
	CategoryMembers(ctx context.Context, category string) ([]string, error)
	PageExtract(ctx context.Context, title string) (string, error)
}

// Options configures an Analyzer.
type Options struct {
	// Parallel is the number of extracts fetched at once. Values below 2
	// fetch one page at a time.
	Parallel int
	Logger   *slog.Logger
	Quiet    bool
}

// Analyzer runs the enumerate, fetch, normalize and count pipeline.
type Analyzer struct {
	source     Source
	normalizer *text.Normalizer
	parallel   int
	logger     *slog.Logger
	quiet      bool
}

// NewAnalyzer creates an Analyzer. A nil normalizer uses the English
// stop-word list.
func NewAnalyzer(source Source, normalizer *text.Normalizer, opts Options) *Analyzer {
	if normalizer == nil {
		normalizer = text.NewNormalizer(text.EnglishStopWords())
	}
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}
	return &Analyzer{
		source:     source,
		normalizer: normalizer,
		parallel:   parallel,
		logger:     logging.OrNop(opts.Logger).With("component", "analysis"),
		quiet:      opts.Quiet,
	}
}

// Analyze returns the word frequencies of every article in category.
// Any enumeration or fetch failure aborts the whole analysis and no
// partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context, category string) (Frequencies, error) {
	titles, err := a.source.CategoryMembers(ctx, category)
	if err != nil {
		return nil, err
	}
	core.ProgressPrint(fmt.Sprintf("Found %d pages in category", len(titles)), a.quiet)

	freqs := make(Frequencies)
	if len(titles) == 0 {
		return freqs, nil
	}

	if a.parallel > 1 && len(titles) > 1 {
		err = a.fetchParallel(ctx, titles, freqs)
	} else {
		err = a.fetchSequential(ctx, titles, freqs)
	}
	if err != nil {
		return nil, err
	}

	a.logger.Debug("analysis complete", "category", category, "pages", len(titles), "words", len(freqs))
	return freqs, nil
}

func (a *Analyzer) fetchSequential(ctx context.Context, titles []string, freqs Frequencies) error {
	for i, title := range titles {
		a.progress(i, len(titles), title)
		extract, err := a.source.PageExtract(ctx, title)
		if err != nil {
			return err
		}
		a.normalizer.Count(extract, freqs)
	}
	return nil
}

// fetchParallel fetches up to a.parallel extracts at once. Extracts are
// folded in enumeration order once every fetch has succeeded.
func (a *Analyzer) fetchParallel(ctx context.Context, titles []string, freqs Frequencies) error {
	extracts := make([]string, len(titles))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallel)

	for i, title := range titles {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			a.progress(i, len(titles), title)
			extract, err := a.source.PageExtract(groupCtx, title)
			if err != nil {
				return err
			}
			extracts[i] = extract
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, extract := range extracts {
		a.normalizer.Count(extract, freqs)
	}
	return nil
}

func (a *Analyzer) progress(i, n int, title string) {
	core.ProgressPrint(fmt.Sprintf("Processing page %d/%d: %s", i+1, n, title), a.quiet)
}
