package core

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ProgressOut is where progress messages are written.
var ProgressOut io.Writer = os.Stderr

// ProgressPrint writes msg to stderr unless quiet is true.
func ProgressPrint(msg string, quiet bool) {
	if !quiet {
		fmt.Fprintln(ProgressOut, msg)
	}
}

// CategoryTitle returns the fully qualified category page title.
// A name that already carries the "Category:" prefix is returned unchanged.
func CategoryTitle(category string) string {
	category = strings.TrimSpace(category)
	if strings.HasPrefix(category, CategoryPrefix) {
		return category
	}
	return CategoryPrefix + category
}

// ParseTimestamp parses a cache record timestamp in either the current
// RFC 3339 form or the legacy naive form (interpreted in local time).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampFmt, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(LegacyTimestampFmt, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp '%s'", s)
	}
	return t, nil
}

// FormatTimestamp formats t for a cache record.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampFmt)
}

// ParseDays parses a duration that may use a trailing "d" for days
// (e.g. "7d"), falling back to time.ParseDuration.
func ParseDays(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s' (expected e.g. 7d or 168h)", s)
	}
	return d, nil
}
