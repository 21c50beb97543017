package api

import (
	"context"
	"errors"
	"testing"

	"github.com/colthorp/wikifreq/internal/core"
)

func seedLetters(transport *InMemoryTransport, category string, n int) []string {
	titles := make([]string, 0, n)
	for i := 0; i < n; i++ {
		title := string(rune('A'+i)) + " article"
		titles = append(titles, title)
		transport.SeedCategory(category, Member{Title: title, NS: core.ArticleNamespace})
	}
	return titles
}

func TestInMemoryTransportPagination(t *testing.T) {
	transport := NewInMemoryTransport()
	seedLetters(transport, "Letters", 5)

	result, err := transport.Request(context.Background(), map[string]string{
		"list":    "categorymembers",
		"cmtitle": "Category:Letters",
		"cmlimit": "2",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	query := result["query"].(map[string]interface{})
	members := query["categorymembers"].([]interface{})
	if len(members) != 2 {
		t.Errorf("Expected 2 items in first page, got %d", len(members))
	}

	cont, ok := result["continue"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected continue to be set for pagination")
	}
	if cont["cmcontinue"] != "2" {
		t.Errorf("Expected cmcontinue 2, got %v", cont["cmcontinue"])
	}
}

func TestPaginateFollowsContinue(t *testing.T) {
	transport := NewInMemoryTransport()
	transport.PageSize = 2
	want := seedLetters(transport, "Letters", 5)

	wiki := NewWikiAPI(transport, nil)
	titles, err := wiki.CategoryMembers(context.Background(), "Letters")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(titles) != len(want) {
		t.Fatalf("Expected %d titles, got %d", len(want), len(titles))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}

	// 5 members at 2 per page
	if transport.RequestsMade() != 3 {
		t.Errorf("Expected 3 requests, got %d", transport.RequestsMade())
	}

	// Continuation parameters are merged into follow-up requests.
	last := transport.RequestLog[2].Params
	if last["cmcontinue"] != "4" || last["continue"] != "-||" {
		t.Errorf("Expected continuation params on last request, got %v", last)
	}
	if last["cmtitle"] != "Category:Letters" {
		t.Errorf("Expected cmtitle to be preserved, got %q", last["cmtitle"])
	}
}

func TestPaginateStopsEarly(t *testing.T) {
	transport := NewInMemoryTransport()
	transport.PageSize = 1
	seedLetters(transport, "Letters", 4)

	wiki := NewWikiAPI(transport, nil)
	count := 0
	for _, err := range wiki.Members(context.Background(), "Letters") {
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		count++
		if count == 2 {
			break
		}
	}

	if transport.RequestsMade() != 2 {
		t.Errorf("Expected 2 requests after breaking early, got %d", transport.RequestsMade())
	}
}

func TestPaginateRepeatedToken(t *testing.T) {
	page := map[string]interface{}{
		"query":    map[string]interface{}{"categorymembers": []interface{}{}},
		"continue": map[string]interface{}{"cmcontinue": "same", "continue": "-||"},
	}
	transport := NewMockTransport(page, page, page)

	wiki := NewWikiAPI(transport, nil)
	_, err := wiki.CategoryMembers(context.Background(), "Loop")
	if !errors.Is(err, core.ErrMalformedResponse) {
		t.Fatalf("Expected malformed response error, got %v", err)
	}
	if len(transport.RequestLog) != 2 {
		t.Errorf("Expected 2 requests before detecting the loop, got %d", len(transport.RequestLog))
	}
}

func TestMockTransport(t *testing.T) {
	transport := NewMockTransport(
		map[string]interface{}{"query": map[string]interface{}{"n": 1}},
		map[string]interface{}{"query": map[string]interface{}{"n": 2}},
	)
	transport.Errors = []error{nil, nil, errors.New("boom")}

	ctx := context.Background()
	for want := 1; want <= 2; want++ {
		result, err := transport.Request(ctx, map[string]string{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := result["query"].(map[string]interface{})["n"]; got != want {
			t.Errorf("Expected fixture %d, got %v", want, got)
		}
	}

	if _, err := transport.Request(ctx, map[string]string{}); err == nil {
		t.Error("Expected injected error on third request")
	}

	if len(transport.RequestLog) != 3 {
		t.Errorf("Expected 3 requests logged, got %d", len(transport.RequestLog))
	}
}
