// Package split chunks per-chapter source text files into narration blocks.
// Verses accumulate into a block until the minimum word count is reached and
// the current verse closes a sentence, keeping blocks evenly sized without
// cutting mid-sentence.
package split

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vorleser/internal/fileutil"
	"vorleser/internal/logging"
)

// Summary reports what a split run produced.
type Summary struct {
	Chapters int
	Blocks   int
}

// Splitter turns chapter files from txtDir into block files under
// chaptersDir, one subdirectory per chapter.
type Splitter struct {
	txtDir      string
	chaptersDir string
	minWords    int
	logger      *slog.Logger
}

// New creates a splitter. minWords is the minimum block size in words before
// a sentence end triggers a flush.
func New(txtDir, chaptersDir string, minWords int, logger *slog.Logger) *Splitter {
	if minWords <= 0 {
		minWords = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Splitter{txtDir: txtDir, chaptersDir: chaptersDir, minWords: minWords, logger: logger}
}

// SplitText partitions verse lines into blocks. Blank lines are dropped. A
// block closes once it holds at least minWords words and its last verse ends
// with a period; trailing verses form a final short block.
func SplitText(lines []string, minWords int) [][]string {
	var blocks [][]string
	var current []string
	wordCount := 0

	for _, line := range lines {
		verse := strings.TrimSpace(line)
		if verse == "" {
			continue
		}
		current = append(current, verse)
		wordCount += len(strings.Fields(verse))

		if wordCount >= minWords && strings.HasSuffix(verse, ".") {
			blocks = append(blocks, current)
			current = nil
			wordCount = 0
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// Run processes every .txt chapter file in the source directory.
func (s *Splitter) Run() (Summary, error) {
	entries, err := os.ReadDir(s.txtDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read source directory %s: %w", s.txtDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return Summary{}, fmt.Errorf("no .txt chapter files found in %s", s.txtDir)
	}

	var summary Summary
	for _, name := range names {
		chapter := strings.TrimSuffix(name, filepath.Ext(name))
		blocks, err := s.splitChapter(name, chapter)
		if err != nil {
			return summary, err
		}
		summary.Chapters++
		summary.Blocks += blocks
		s.logger.Info("chapter split",
			logging.String("chapter", chapter),
			logging.Int("blocks", blocks))
	}
	return summary, nil
}

func (s *Splitter) splitChapter(fileName, chapter string) (int, error) {
	data, err := os.ReadFile(filepath.Join(s.txtDir, fileName))
	if err != nil {
		return 0, fmt.Errorf("read chapter %s: %w", fileName, err)
	}

	blocks := SplitText(strings.Split(string(data), "\n"), s.minWords)
	for i, block := range blocks {
		path := filepath.Join(s.chaptersDir, chapter, fmt.Sprintf("%03d.txt", i+1))
		if err := fileutil.WriteFileAtomic(path, []byte(strings.Join(block, "\n")), 0o644); err != nil {
			return 0, fmt.Errorf("write block %s: %w", path, err)
		}
	}
	return len(blocks), nil
}
