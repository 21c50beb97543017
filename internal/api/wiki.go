package api

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"strconv"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"go.trai.ch/zerr"
)

const (
	opCategoryMembers = "categorymembers"
	opExtracts        = "extracts"
)

// WikiAPI provides typed MediaWiki queries over a Transport.
type WikiAPI struct {
	transport Transport
	logger    *slog.Logger
}

// NewWikiAPI creates a new high-level API client.
func NewWikiAPI(transport Transport, logger *slog.Logger) *WikiAPI {
	if transport == nil {
		transport = NewClient(ClientOptions{Logger: logger})
	}
	return &WikiAPI{
		transport: transport,
		logger:    logging.OrNop(logger).With("component", "wiki"),
	}
}

// Paginate yields response objects across a continued query.
// Every key of a response's "continue" object is merged into the next
// request's parameters; iteration stops when no "continue" is returned.
func (w *WikiAPI) Paginate(ctx context.Context, params map[string]string) iter.Seq2[map[string]interface{}, error] {
	return func(yield func(map[string]interface{}, error) bool) {
		currentParams := maps.Clone(params)
		if currentParams == nil {
			currentParams = make(map[string]string)
		}
		seen := make(map[string]bool)
		pagesCount := 0

		for {
			data, err := w.transport.Request(ctx, currentParams)
			if err != nil {
				yield(nil, err)
				return
			}
			pagesCount++

			if !yield(data, nil) {
				return
			}

			cont, ok := data["continue"].(map[string]interface{})
			if !ok || len(cont) == 0 {
				w.logger.Debug("pagination complete", "pages", pagesCount)
				return
			}

			token := fmt.Sprint(cont)
			if seen[token] {
				yield(nil, zerr.With(zerr.Wrap(core.ErrMalformedResponse, "continuation token repeated"), "continue", token))
				return
			}
			seen[token] = true

			for k, v := range cont {
				currentParams[k] = fmt.Sprint(v)
			}
		}
	}
}

// Members yields the article titles of a category page by page.
// Only namespace-0 entries are kept and titles are deduplicated in
// first-seen order. Failures are yielded as *core.FetchError.
func (w *WikiAPI) Members(ctx context.Context, category string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		params := map[string]string{
			"action":  "query",
			"list":    "categorymembers",
			"cmtitle": core.CategoryTitle(category),
			"cmlimit": strconv.Itoa(core.PageLimit),
		}
		fail := func(err error) {
			yield("", &core.FetchError{Op: opCategoryMembers, Title: category, Err: err})
		}

		seen := make(map[string]bool)
		for data, err := range w.Paginate(ctx, params) {
			if err != nil {
				fail(err)
				return
			}
			members, err := parseMembers(data)
			if err != nil {
				fail(err)
				return
			}
			for _, m := range members {
				if m.NS != core.ArticleNamespace || seen[m.Title] {
					continue
				}
				seen[m.Title] = true
				if !yield(m.Title, nil) {
					return
				}
			}
		}
	}
}

// CategoryMembers returns the complete list of article titles in category.
// An empty category yields an empty, non-nil slice.
func (w *WikiAPI) CategoryMembers(ctx context.Context, category string) ([]string, error) {
	titles := make([]string, 0)
	for title, err := range w.Members(ctx, category) {
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	w.logger.Debug("enumerated category", "category", category, "pages", len(titles))
	return titles, nil
}

// PageExtract returns the plain-text extract of one article. A page
// without an extract (missing, redirect, stub) yields "".
func (w *WikiAPI) PageExtract(ctx context.Context, title string) (string, error) {
	params := map[string]string{
		"action":      "query",
		"prop":        "extracts",
		"explaintext": "1",
		"titles":      title,
	}

	data, err := w.transport.Request(ctx, params)
	if err != nil {
		return "", &core.FetchError{Op: opExtracts, Title: title, Err: err}
	}

	extract, err := parseExtract(data)
	if err != nil {
		return "", &core.FetchError{Op: opExtracts, Title: title, Err: err}
	}
	return extract, nil
}

// parseMembers reads query.categorymembers from a listing response.
func parseMembers(data map[string]interface{}) ([]Member, error) {
	query, ok := data["query"].(map[string]interface{})
	if !ok {
		return nil, zerr.Wrap(core.ErrMalformedResponse, "missing query object")
	}
	raw, ok := query["categorymembers"].([]interface{})
	if !ok {
		return nil, zerr.Wrap(core.ErrMalformedResponse, "missing query.categorymembers")
	}

	members := make([]Member, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, zerr.With(zerr.Wrap(core.ErrMalformedResponse, "member is not an object"), "index", i)
		}
		title, ok := entry["title"].(string)
		if !ok {
			return nil, zerr.With(zerr.Wrap(core.ErrMalformedResponse, "member without title"), "index", i)
		}
		ns, ok := entry["ns"].(float64)
		if !ok {
			return nil, zerr.With(zerr.Wrap(core.ErrMalformedResponse, "member without namespace"), "title", title)
		}
		members = append(members, Member{Title: title, NS: int(ns)})
	}
	return members, nil
}

// parseExtract reads the first page's extract from an extracts response.
func parseExtract(data map[string]interface{}) (string, error) {
	query, ok := data["query"].(map[string]interface{})
	if !ok {
		return "", zerr.Wrap(core.ErrMalformedResponse, "missing query object")
	}
	pages, ok := query["pages"].(map[string]interface{})
	if !ok || len(pages) == 0 {
		return "", zerr.Wrap(core.ErrMalformedResponse, "missing query.pages")
	}

	// One title is requested, so exactly one page object comes back.
	for _, p := range pages {
		page, ok := p.(map[string]interface{})
		if !ok {
			return "", zerr.Wrap(core.ErrMalformedResponse, "page is not an object")
		}
		extract, _ := page["extract"].(string)
		return extract, nil
	}
	return "", nil
}
