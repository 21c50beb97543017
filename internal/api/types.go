// Package api provides the HTTP client and MediaWiki query helpers used to
// enumerate category members and fetch article extracts.
package api

import "context"

// Member is one entry of a categorymembers listing.
type Member struct {
	Title string `json:"title"`
	NS    int    `json:"ns"`
}

// Transport is the interface for making API requests.
// params are sent as the query string; the decoded JSON object is returned.
type Transport interface {
	Request(ctx context.Context, params map[string]string) (map[string]interface{}, error)
}
