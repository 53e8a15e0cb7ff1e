// Package scoring derives error rates from edit distances between normalized
// ground-truth and transcribed text. The distance metric is the classic
// unit-cost Levenshtein distance; removal and analysis thresholds are tuned
// against this exact metric, so no approximation is acceptable.
package scoring

import (
	"github.com/antzucaro/matchr"
)

// SentinelDistance marks a record whose transcription was judged unusable by
// pattern matching. It is large enough to push any realistic chunk to an
// error rate of 1.0.
const SentinelDistance = 999

// Distance returns the minimum number of single-character insertions,
// deletions, or substitutions transforming a into b.
func Distance(a, b string) int {
	if a == "" {
		return len([]rune(b))
	}
	if b == "" {
		return len([]rune(a))
	}
	return matchr.Levenshtein(a, b)
}

// ErrorRate normalizes a distance by the original's normalized length and
// caps the result at 1.0. A zero-length original yields 1.0 regardless of
// distance: nothing to compare is treated as maximally wrong, never perfect.
func ErrorRate(distance, normalizedOriginalLength int) float64 {
	if normalizedOriginalLength <= 0 {
		return 1.0
	}
	rate := float64(distance) / float64(normalizedOriginalLength)
	if rate > 1.0 {
		return 1.0
	}
	return rate
}

// AggregateRate computes a chapter-level rate from summed distances and
// summed normalized lengths, with the same capping and zero-length rules as
// ErrorRate.
func AggregateRate(totalDistance, totalLength int) float64 {
	return ErrorRate(totalDistance, totalLength)
}
