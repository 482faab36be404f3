package normalization

import (
	"strings"
)

// Email lowercases and trims an address for storage and lookups.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Tag folds a tool or tag name for case-insensitive matching.
func Tag(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Text trims surrounding whitespace, preserving case.
func Text(input string) string {
	return strings.TrimSpace(input)
}
