// Package cache persists word-frequency snapshots per category.
//
// # Overview
//
// Each analysed category is stored as one JSON file named after its
// sanitized key (only [A-Za-z0-9_-]; every other character becomes "_"):
//
//	{
//	  "timestamp": "2024-07-15T10:30:00.123456789+02:00",
//	  "word_frequencies": {"cat": 12, "lion": 7}
//	}
//
// # Validity Rules
//
// A record is used only while its age is within the expiry window
// (7 days by default); a record exactly at the boundary is still valid.
// Missing, unparseable and expired records are all reported as a miss,
// so a bad file is simply recomputed and overwritten.
//
// Sanitization is many-to-one: "C++" and "C__" share a key and therefore
// a record.
package cache

import (
	"time"
)

// Entry is one category's cached word frequencies.
type Entry struct {
	Key             string
	Timestamp       time.Time
	WordFrequencies map[string]int
}

// FilePayload is the JSON structure stored in cache files.
type FilePayload struct {
	Timestamp       string         `json:"timestamp"`
	WordFrequencies map[string]int `json:"word_frequencies"`
}

// Backend is the interface for cache storage backends.
// The default implementation is FilesystemBackend which stores JSON files on disk.
type Backend interface {
	// Read returns the entry stored under key, or nil if it is absent or
	// cannot be decoded.
	Read(key string) *Entry

	// Write persists the entry under entry.Key, replacing any prior record.
	Write(entry *Entry) error

	// Scan returns every decodable entry.
	Scan() []*Entry

	// Remove deletes the record for key. Removing an absent key is not an error.
	Remove(key string) error

	// Clear deletes every record and returns how many were removed.
	Clear() (int, error)

	// Path returns the storage location for key (for debugging).
	Path(key string) string
}

// ScanResult describes one stored record.
type ScanResult struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	Words     int       `json:"words"`   // distinct words in the record
	Expired   bool      `json:"expired"` // older than the store's expiry window
}
