// Package textnorm canonicalizes text for transcription comparison. Every
// component that scores or re-scores a transcription must normalize through
// this package; the error rates of two runs are only comparable when the
// normalization is byte-for-byte identical.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	disallowedPattern = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the text, removes every character outside
// [a-z0-9\s], and collapses whitespace runs to single spaces with the
// result trimmed. Deterministic and idempotent.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	stripped := disallowedPattern.ReplaceAllString(lowered, "")
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}

// Words returns the whitespace-separated words of the normalized form of
// text. Returns nil for text that normalizes to the empty string.
func Words(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
