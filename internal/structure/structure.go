// Package structure derives a canonical catalog of the audio corpus: which
// books and chapters exist and how many audio chunks each chapter holds.
// The catalog is the ground truth other tools verify directory names
// against.
package structure

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"vorleser/internal/fileutil"
	"vorleser/internal/logging"
)

// CatalogFileName is the catalog written into the result root.
const CatalogFileName = "books.json"

// chapterDirPattern splits a chapter directory name into book abbreviation
// and chapter number, e.g. "1Kor13" into "1Kor" and 13.
var chapterDirPattern = regexp.MustCompile(`^([1-9]?[A-Za-z]+)(\d+)$`)

// ChapterCount pairs a chapter number with its audio chunk count.
type ChapterCount struct {
	Number int
	Chunks int
}

// ChapterCounts marshals as an object keyed by chapter number in numeric
// order, matching the established catalog format.
type ChapterCounts []ChapterCount

// MarshalJSON renders chapters as {"1":15,"2":10} in chapter order. A plain
// map would sort the keys lexically and put chapter 10 before chapter 2.
func (c ChapterCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, chapter := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", strconv.Itoa(chapter.Number), chapter.Chunks)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Book is one catalog entry.
type Book struct {
	BookName      string        `json:"book_name"`
	DirectoryName string        `json:"directory_name"`
	Chapters      ChapterCounts `json:"chapters"`
}

// Scan walks the audio directory and builds the catalog in canonical book
// order. Directories whose names don't parse as <book><chapter> are logged
// and skipped.
func Scan(wavDir string, logger *slog.Logger) ([]Book, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(wavDir)
	if err != nil {
		return nil, fmt.Errorf("read audio directory %s: %w", wavDir, err)
	}

	byBook := make(map[string]map[int]int)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		match := chapterDirPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			logger.Warn("skipping unrecognized chapter directory", logging.String("dir", entry.Name()))
			continue
		}
		book := match[1]
		chapter, err := strconv.Atoi(match[2])
		if err != nil {
			logger.Warn("skipping unrecognized chapter directory", logging.String("dir", entry.Name()))
			continue
		}

		count, err := countAudioChunks(filepath.Join(wavDir, entry.Name()))
		if err != nil {
			logger.Warn("failed to read chapter directory",
				logging.String("dir", entry.Name()), logging.Error(err))
			continue
		}
		if byBook[book] == nil {
			byBook[book] = make(map[int]int)
		}
		byBook[book][chapter] = count
	}

	var books []Book
	for _, abbreviation := range canonicalOrder {
		chapters, ok := byBook[abbreviation]
		if !ok {
			continue
		}
		numbers := make([]int, 0, len(chapters))
		for number := range chapters {
			numbers = append(numbers, number)
		}
		sort.Ints(numbers)

		counts := make(ChapterCounts, 0, len(numbers))
		for _, number := range numbers {
			counts = append(counts, ChapterCount{Number: number, Chunks: chapters[number]})
		}
		books = append(books, Book{
			BookName:      BookName(abbreviation),
			DirectoryName: abbreviation,
			Chapters:      counts,
		})
	}
	return books, nil
}

func countAudioChunks(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			count++
		}
	}
	return count, nil
}

// WriteCatalog persists the catalog into outDir and returns its path.
func WriteCatalog(outDir string, books []Book) (string, error) {
	path := filepath.Join(outDir, CatalogFileName)
	if err := fileutil.WriteJSONAtomic(path, books); err != nil {
		return "", err
	}
	return path, nil
}
