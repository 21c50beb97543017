package api

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/colthorp/wikifreq/internal/core"
)

// InMemoryTransport is a lightweight simulation of the MediaWiki Action API.
// Only implements list=categorymembers and prop=extracts, sufficient for
// unit testing enumeration, fetching and cache logic.
type InMemoryTransport struct {
	// PageSize caps members per listing response; 0 honours cmlimit.
	PageSize int

	mu         sync.Mutex
	categories map[string][]Member
	extracts   map[string]string
	failures   map[string]error
	RequestLog []RequestLogEntry
}

// RequestLogEntry records a request made to the transport.
type RequestLogEntry struct {
	Params map[string]string
}

// NewInMemoryTransport creates a new in-memory transport for testing.
func NewInMemoryTransport() *InMemoryTransport {
	return &InMemoryTransport{
		categories: make(map[string][]Member),
		extracts:   make(map[string]string),
		failures:   make(map[string]error),
		RequestLog: make([]RequestLogEntry, 0),
	}
}

// SeedCategory adds members to a category. The category name is given
// without the "Category:" prefix.
func (t *InMemoryTransport) SeedCategory(category string, members ...Member) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := core.CategoryTitle(category)
	t.categories[key] = append(t.categories[key], members...)
}

// SeedArticles adds namespace-0 members to a category together with their
// extracts.
func (t *InMemoryTransport) SeedArticles(category string, extracts map[string]string, order ...string) {
	for _, title := range order {
		t.SeedCategory(category, Member{Title: title, NS: core.ArticleNamespace})
		if text, ok := extracts[title]; ok {
			t.SeedExtract(title, text)
		}
	}
}

// SeedExtract registers the extract returned for title.
func (t *InMemoryTransport) SeedExtract(title, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extracts[title] = text
}

// FailOn makes any request whose cmtitle or titles equals key return err.
func (t *InMemoryTransport) FailOn(key string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[key] = err
}

// RequestsMade returns the number of requests made to this transport.
func (t *InMemoryTransport) RequestsMade() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.RequestLog)
}

// ExtractRequests returns how many prop=extracts requests were made.
func (t *InMemoryTransport) ExtractRequests() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.RequestLog {
		if e.Params["prop"] == "extracts" {
			n++
		}
	}
	return n
}

// Reset clears all seeded data and recorded requests.
func (t *InMemoryTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.categories = make(map[string][]Member)
	t.extracts = make(map[string]string)
	t.failures = make(map[string]error)
	t.RequestLog = make([]RequestLogEntry, 0)
}

// Request simulates a MediaWiki query.
func (t *InMemoryTransport) Request(ctx context.Context, params map[string]string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Track the call for assertions in unit tests
	t.RequestLog = append(t.RequestLog, RequestLogEntry{Params: copyParams(params)})

	switch {
	case params["list"] == "categorymembers":
		if err, ok := t.failures[params["cmtitle"]]; ok {
			return nil, err
		}
		return t.listMembers(params), nil
	case params["prop"] == "extracts":
		if err, ok := t.failures[params["titles"]]; ok {
			return nil, err
		}
		return t.pageExtract(params["titles"]), nil
	}

	return map[string]interface{}{"batchcomplete": ""}, nil
}

func (t *InMemoryTransport) listMembers(params map[string]string) map[string]interface{} {
	members := t.categories[params["cmtitle"]]

	limit := t.PageSize
	if limit <= 0 {
		limit = core.PageLimit
		if l, err := strconv.Atoi(params["cmlimit"]); err == nil && l > 0 {
			limit = l
		}
	}

	startIdx := 0
	if cursor := params["cmcontinue"]; cursor != "" {
		if idx, err := strconv.Atoi(cursor); err == nil {
			startIdx = idx
		}
	}
	if startIdx > len(members) {
		startIdx = len(members)
	}

	endIdx := startIdx + limit
	if endIdx > len(members) {
		endIdx = len(members)
	}

	page := make([]interface{}, 0, endIdx-startIdx)
	for i, m := range members[startIdx:endIdx] {
		page = append(page, map[string]interface{}{
			"pageid": float64(startIdx + i + 1),
			"ns":     float64(m.NS),
			"title":  m.Title,
		})
	}

	result := map[string]interface{}{
		"query": map[string]interface{}{
			"categorymembers": page,
		},
	}
	if endIdx < len(members) {
		result["continue"] = map[string]interface{}{
			"cmcontinue": strconv.Itoa(endIdx),
			"continue":   "-||",
		}
	} else {
		result["batchcomplete"] = ""
	}
	return result
}

func (t *InMemoryTransport) pageExtract(title string) map[string]interface{} {
	page := map[string]interface{}{
		"ns":    float64(core.ArticleNamespace),
		"title": title,
	}
	pageID := "-1"
	if text, ok := t.extracts[title]; ok {
		pageID = fmt.Sprintf("%d", len(title)+1000)
		page["pageid"] = float64(len(title) + 1000)
		page["extract"] = text
	} else {
		page["missing"] = ""
	}

	return map[string]interface{}{
		"batchcomplete": "",
		"query": map[string]interface{}{
			"pages": map[string]interface{}{
				pageID: page,
			},
		},
	}
}

// copyParams creates a copy of the params map.
func copyParams(params map[string]string) map[string]string {
	result := make(map[string]string)
	for k, v := range params {
		result[k] = v
	}
	return result
}

// MockTransport replays fixed responses in order, suitable for feeding
// malformed payloads or errors into deterministic unit tests.
type MockTransport struct {
	Fixtures   []map[string]interface{}
	Errors     []error
	RequestLog []RequestLogEntry
}

// NewMockTransport creates a new mock transport with the given fixtures.
func NewMockTransport(fixtures ...map[string]interface{}) *MockTransport {
	return &MockTransport{
		Fixtures:   fixtures,
		RequestLog: make([]RequestLogEntry, 0),
	}
}

// Request returns the next fixture. Errors[i], when set, is returned
// instead of Fixtures[i]. Running past the fixtures yields an empty object.
func (t *MockTransport) Request(_ context.Context, params map[string]string) (map[string]interface{}, error) {
	idx := len(t.RequestLog)
	t.RequestLog = append(t.RequestLog, RequestLogEntry{Params: copyParams(params)})

	if idx < len(t.Errors) && t.Errors[idx] != nil {
		return nil, t.Errors[idx]
	}
	if idx < len(t.Fixtures) {
		return t.Fixtures[idx], nil
	}
	return map[string]interface{}{}, nil
}
