package core

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrFetch matches every FetchError via errors.Is.
	ErrFetch = zerr.New("fetch failed")

	// ErrConfig matches every ConfigError via errors.Is.
	ErrConfig = zerr.New("configuration error")

	// ErrMalformedResponse is the cause of a FetchError when the service
	// answers with a body that lacks the expected structure.
	ErrMalformedResponse = zerr.New("malformed response")

	// ErrNotCached is returned in cache-only mode when no fresh record exists.
	ErrNotCached = zerr.New("no cached result")

	// ErrCategoryRequired is returned when an empty category name is given.
	ErrCategoryRequired = zerr.New("Category is required")
)

// FetchError reports a failed request to the remote service: a network
// failure, an HTTP error status or an unexpected response shape.
type FetchError struct {
	Op    string // "categorymembers" or "extracts"
	Title string // category or page title being requested
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Title, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// ConfigError reports a fatal setup failure, such as a cache directory
// that cannot be created or a config file that cannot be parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Annotate attaches a structured field to err while keeping err itself in
// the chain, so errors.Is still matches sentinels created with zerr.New.
func Annotate(err error, key string, value any) error {
	if err == nil {
		return nil
	}
	return zerr.With(zerr.Wrap(err, ""), key, value)
}
