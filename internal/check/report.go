package check

import (
	"log/slog"
	"path/filepath"
	"sort"

	"vorleser/internal/fileutil"
	"vorleser/internal/logging"
	"vorleser/internal/records"
)

// ReportFileName is the combined record report written into the result root.
const ReportFileName = "report.json"

// ChapterDeficiency summarizes one chapter in the deficiency analysis. A
// chunk is deficient when its stored distance is nonzero.
type ChapterDeficiency struct {
	Chapter   string
	Total     int
	Deficient int
	Percent   float64
}

// Report is the always-regenerated output of a check run.
type Report struct {
	Chunks   []records.ChunkRecord
	Chapters []ChapterDeficiency
}

// Problematic lists chapters whose deficiency percentage exceeds the given
// threshold.
func (r *Report) Problematic(thresholdPercent float64) []string {
	var out []string
	for _, chapter := range r.Chapters {
		if chapter.Percent > thresholdPercent {
			out = append(out, chapter.Chapter)
		}
	}
	return out
}

// BuildReport scans every persisted record, writes the combined report.json
// into the result root, and computes the per-chapter deficiency analysis in
// chapter order.
func BuildReport(store *records.Store, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	scanned, err := store.Scan(logger)
	if err != nil {
		return nil, err
	}
	if len(scanned) == 0 {
		logger.Info("no chunk results found to analyze")
		return &Report{}, nil
	}

	chunks := make([]records.ChunkRecord, 0, len(scanned))
	for _, record := range scanned {
		chunks = append(chunks, record.ChunkRecord)
	}

	reportPath := filepath.Join(store.Root(), ReportFileName)
	if err := fileutil.WriteJSONAtomic(reportPath, chunks); err != nil {
		return nil, err
	}
	logger.Info("final report generated", logging.String("path", reportPath), logging.Int("chunks", len(chunks)))

	type tally struct {
		total     int
		deficient int
	}
	byChapter := make(map[string]*tally)
	for _, record := range chunks {
		entry, ok := byChapter[record.Chapter]
		if !ok {
			entry = &tally{}
			byChapter[record.Chapter] = entry
		}
		entry.total++
		if record.Distance > 0 {
			entry.deficient++
		}
	}

	chapterNames := make([]string, 0, len(byChapter))
	for name := range byChapter {
		chapterNames = append(chapterNames, name)
	}
	sort.Strings(chapterNames)

	chapters := make([]ChapterDeficiency, 0, len(chapterNames))
	for _, name := range chapterNames {
		entry := byChapter[name]
		percent := 0.0
		if entry.total > 0 {
			percent = float64(entry.deficient) / float64(entry.total) * 100
		}
		chapters = append(chapters, ChapterDeficiency{
			Chapter:   name,
			Total:     entry.total,
			Deficient: entry.deficient,
			Percent:   percent,
		})
	}

	return &Report{Chunks: chunks, Chapters: chapters}, nil
}
