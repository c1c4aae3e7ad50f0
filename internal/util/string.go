package util

import (
	"net/url"
	"strings"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeKey collapses an exercise name into a cache key: lowercase, single spaces.
func NormalizeKey(name string) string {
	return strings.Join(strings.Fields(Normalize(name)), " ")
}

// MaskSecret keeps the first few characters of a credential for logging.
func MaskSecret(secret string, visible int) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}
	return secret[:visible] + "..."
}

// EscapeQueryComponent escapes s for a query string value, encoding spaces as %20.
func EscapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
