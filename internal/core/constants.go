// Package core provides shared constants and configuration for the wikifreq CLI.
package core

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// API configuration
const (
	APIURL         = "https://en.wikipedia.org/w/api.php"
	APIURLEnvVar   = "WIKIFREQ_API_URL"
	CacheDirEnvVar = "WIKIFREQ_CACHE_DIR"
	UserAgent      = "wikifreq/" + Version + " (https://github.com/colthorp/wikifreq)"
	CategoryPrefix = "Category:"
)

// ArticleNamespace is the MediaWiki namespace id of regular articles.
const ArticleNamespace = 0

// Pagination
const (
	PageLimit = 500
)

// Cache settings
const (
	CacheExpiry = 7 * 24 * time.Hour
	CacheExt    = ".json"
)

// Timestamp formats accepted in cache records. Records written by older
// tools carry a naive local time with microseconds.
const (
	TimestampFmt       = time.RFC3339Nano
	LegacyTimestampFmt = "2006-01-02T15:04:05.999999"
)

// Ranking defaults
const (
	TopN        = 100 // entries returned to the word cloud
	DisplayTopN = 50  // entries printed by the CLI
)

// HTTP defaults
const (
	HTTPTimeout = 60 * time.Second
)

// CacheRoot returns the default cache directory path.
func CacheRoot() string {
	return filepath.Join(xdg.CacheHome, "wikifreq")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "wikifreq", "config.yaml")
}

// Version is the current CLI version.
const Version = "0.3.0"
