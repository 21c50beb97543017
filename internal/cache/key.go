package cache

import "regexp"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeKey maps a category name to a storage key by replacing every
// character outside [A-Za-z0-9_-] with "_". Sanitizing a key again returns
// it unchanged.
func SanitizeKey(category string) string {
	return unsafeKeyChars.ReplaceAllString(category, "_")
}
