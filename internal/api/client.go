package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"go.trai.ch/zerr"
)

// APIError is returned when the service answers with an error status or a
// MediaWiki error object.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (HTTP %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// ClientOptions configures a Client. Zero values fall back to defaults.
type ClientOptions struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Retries    int // extra attempts on 5xx/429; 0 disables retrying
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the HTTP wrapper around the MediaWiki Action API.
type Client struct {
	baseURL    string
	userAgent  string
	retries    int
	httpClient *http.Client
	logger     *slog.Logger
	backoff    func(attempt int) time.Duration
}

// exponentialBackoff waits 1s, 2s, 4s, ... between attempts.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

// NewClient creates a new API client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = core.APIURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = core.UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = core.HTTPTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		retries:    retries,
		httpClient: httpClient,
		logger:     logging.OrNop(opts.Logger).With("component", "api"),
		backoff:    exponentialBackoff,
	}
}

// Request performs a GET request and decodes the JSON payload.
// format=json is always sent. Retries on HTTP 5xx or 429 with exponential
// back-off only when the client was built with Retries > 0.
func (c *Client) Request(ctx context.Context, params map[string]string) (map[string]interface{}, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("format", "json")
	urlStr := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())

	c.logger.Debug("GET", "url", urlStr)

	maxAttempts := c.retries + 1
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, retryAfter, err := c.do(ctx, urlStr)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if retryAfter < 0 || attempt == maxAttempts {
			break
		}
		if retryAfter == 0 {
			retryAfter = c.backoff(attempt)
		}
		c.logger.Debug("retrying", "attempt", attempt, "wait", retryAfter, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryAfter):
		}
	}

	return nil, lastErr
}

// do performs one attempt. retryAfter is negative when the failure is not
// worth retrying, zero when the default back-off applies.
func (c *Client) do(ctx context.Context, urlStr string) (map[string]interface{}, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, -1, zerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, -1, ctx.Err()
		}
		return nil, 0, zerr.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, -1, zerr.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		var wait time.Duration
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		return nil, wait, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode >= 400 {
		return nil, -1, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, -1, zerr.Wrap(core.ErrMalformedResponse, "failed to parse JSON response: "+err.Error())
	}

	if apiErr, ok := result["error"].(map[string]interface{}); ok {
		code, _ := apiErr["code"].(string)
		info, _ := apiErr["info"].(string)
		return nil, -1, &APIError{StatusCode: resp.StatusCode, Code: code, Message: info}
	}

	c.logger.Debug("response", "status", resp.StatusCode, "bytes", len(body))
	return result, 0, nil
}
