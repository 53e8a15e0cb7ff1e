// Package corpus classifies chapter identifiers into the two testament
// partitions. A chapter id like "1Kor13" resolves to the book abbreviation
// "1Kor" via its leading optional digit plus letters; ids whose abbreviation
// appears in neither configured book set are uncategorized and excluded from
// all downstream analysis.
package corpus

import (
	"regexp"

	"vorleser/internal/config"
)

// Testament identifies one of the two corpus subdivisions.
type Testament int

const (
	Uncategorized Testament = iota
	NewTestament
	OldTestament
)

// String returns the short label used in artifact file names and logs.
func (t Testament) String() string {
	switch t {
	case NewTestament:
		return "NT"
	case OldTestament:
		return "OT"
	default:
		return "uncategorized"
	}
}

var bookPattern = regexp.MustCompile(`^([0-9]?[A-Za-z]+)`)

// BookAbbreviation extracts the leading book abbreviation from a chapter id.
// The second result is false when the id has no recognizable leading
// abbreviation.
func BookAbbreviation(chapterID string) (string, bool) {
	match := bookPattern.FindStringSubmatch(chapterID)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Partition holds the configured book sets for classification.
type Partition struct {
	newTestament map[string]struct{}
	oldTestament map[string]struct{}
}

// NewPartition builds a partition from the configured book sets.
func NewPartition(books config.Books) *Partition {
	p := &Partition{
		newTestament: make(map[string]struct{}, len(books.NewTestament)),
		oldTestament: make(map[string]struct{}, len(books.OldTestament)),
	}
	for _, abbr := range books.NewTestament {
		p.newTestament[abbr] = struct{}{}
	}
	for _, abbr := range books.OldTestament {
		p.oldTestament[abbr] = struct{}{}
	}
	return p
}

// Classify maps a chapter id to its testament, or Uncategorized when the
// abbreviation is unrecognizable or belongs to neither book set.
func (p *Partition) Classify(chapterID string) Testament {
	abbr, ok := BookAbbreviation(chapterID)
	if !ok {
		return Uncategorized
	}
	if _, ok := p.newTestament[abbr]; ok {
		return NewTestament
	}
	if _, ok := p.oldTestament[abbr]; ok {
		return OldTestament
	}
	return Uncategorized
}
