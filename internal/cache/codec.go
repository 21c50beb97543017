package cache

import (
	"encoding/json"

	"github.com/colthorp/wikifreq/internal/core"
	"go.trai.ch/zerr"
)

var (
	// ErrCorruptRecord is returned by Decode for records that cannot be used.
	ErrCorruptRecord = zerr.New("corrupt cache record")
)

// Encode serializes an entry into the on-disk record format.
func Encode(entry *Entry) ([]byte, error) {
	freqs := entry.WordFrequencies
	if freqs == nil {
		freqs = map[string]int{}
	}
	payload := FilePayload{
		Timestamp:       core.FormatTimestamp(entry.Timestamp),
		WordFrequencies: freqs,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal cache record")
	}
	return data, nil
}

// Decode parses a record stored under key. Malformed JSON, a missing or
// invalid timestamp, a missing word_frequencies object and negative counts
// all yield ErrCorruptRecord.
func Decode(key string, data []byte) (*Entry, error) {
	var payload FilePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, zerr.With(zerr.Wrap(ErrCorruptRecord, err.Error()), "key", key)
	}
	if payload.Timestamp == "" {
		return nil, zerr.With(zerr.Wrap(ErrCorruptRecord, "missing timestamp"), "key", key)
	}
	ts, err := core.ParseTimestamp(payload.Timestamp)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(ErrCorruptRecord, err.Error()), "key", key)
	}
	if payload.WordFrequencies == nil {
		return nil, zerr.With(zerr.Wrap(ErrCorruptRecord, "missing word_frequencies"), "key", key)
	}
	for word, count := range payload.WordFrequencies {
		if count < 0 {
			return nil, zerr.With(zerr.Wrap(ErrCorruptRecord, "negative count"), "word", word)
		}
	}
	return &Entry{
		Key:             key,
		Timestamp:       ts,
		WordFrequencies: payload.WordFrequencies,
	}, nil
}
