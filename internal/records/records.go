// Package records defines the per-chunk result record and the file-backed
// store holding one JSON record per scored chunk. The presence of a record is
// the pipeline's completion marker: a chunk with a persisted record is never
// transcribed again.
package records

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vorleser/internal/fileutil"
	"vorleser/internal/logging"
)

// ChunkRecord is one scored unit of narrated text. Uniquely identified by
// (Chapter, Chunk); persisted as exactly one JSON file per completed chunk.
type ChunkRecord struct {
	Chapter         string `json:"chapter"`
	Chunk           string `json:"chunk"`
	Distance        int    `json:"levenshtein_distance"`
	OriginalText    string `json:"original_text"`
	TranscribedText string `json:"transcribed_text"`
}

// ScannedRecord pairs a parsed record with the file it came from.
type ScannedRecord struct {
	ChunkRecord
	Path string
}

// Store is a key-value view over the result root: one record file per
// (chapter, chunk) at <root>/<chapter>/<chunk>.json. Aggregate reports live
// directly in the root and are never treated as records.
type Store struct {
	root string
}

// NewStore creates a store over the given result root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the result root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the canonical record path for a chunk key.
func (s *Store) Path(chapter, chunk string) string {
	return filepath.Join(s.root, chapter, chunk+".json")
}

// Exists reports whether a record for the chunk key has been persisted.
// This is the resumability contract: exists means done.
func (s *Store) Exists(chapter, chunk string) bool {
	return fileutil.Exists(s.Path(chapter, chunk))
}

// Write persists the record atomically, creating the chapter directory as
// needed. Output paths are unique per key, so concurrent workers never
// contend on the same file.
func (s *Store) Write(record ChunkRecord) error {
	if record.Chapter == "" || record.Chunk == "" {
		return fmt.Errorf("record key incomplete: chapter=%q chunk=%q", record.Chapter, record.Chunk)
	}
	return fileutil.WriteJSONAtomic(s.Path(record.Chapter, record.Chunk), record)
}

// ReadFile parses a single record file.
func (s *Store) ReadFile(path string) (ChunkRecord, error) {
	var record ChunkRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("read record: %w", err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("parse record %s: %w", filepath.Base(path), err)
	}
	return record, nil
}

// Scan enumerates all persisted records under the root in lexicographic path
// order so downstream reports are reproducible. Top-level JSON files
// (aggregate reports, manifests) are excluded. Malformed or unreadable files
// are logged as warnings and skipped; the scan still completes with a
// best-effort corpus.
func (s *Store) Scan(logger *slog.Logger) ([]ScannedRecord, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	if !fileutil.Exists(s.root) {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			return nil
		}
		if filepath.Dir(path) == s.root {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan result store: %w", err)
	}
	sort.Strings(paths)

	results := make([]ScannedRecord, 0, len(paths))
	for _, path := range paths {
		record, err := s.ReadFile(path)
		if err != nil {
			logger.Warn("skipping malformed record", logging.String("path", path), logging.Error(err))
			continue
		}
		results = append(results, ScannedRecord{ChunkRecord: record, Path: path})
	}
	return results, nil
}
