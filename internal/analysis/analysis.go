// Package analysis turns persisted chunk records into per-testament
// statistical reports: individual chunk error rates, chapter aggregates,
// threshold-flagged lists, and a percentile impact table.
package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"vorleser/internal/corpus"
	"vorleser/internal/fileutil"
	"vorleser/internal/logging"
	"vorleser/internal/records"
	"vorleser/internal/scoring"
	"vorleser/internal/textnorm"
)

// ChunkRate is one chunk's normalized error rate, identified as
// <chapter>/<chunk>.
type ChunkRate struct {
	ChunkID string  `json:"chunk_id"`
	Rate    float64 `json:"normalized_error_rate"`
}

// ChapterRate is one chapter's aggregated error rate over all of its chunks.
type ChapterRate struct {
	Chapter string  `json:"chapter"`
	Rate    float64 `json:"aggregated_error_rate"`
}

type chunkSummary struct {
	TotalChunks int `json:"total_chunks"`
}

type chunkReport struct {
	Summary   chunkSummary `json:"summary_statistics"`
	AllChunks []ChunkRate  `json:"all_chunks"`
}

// PercentileRow describes how many items a statistical threshold at the
// given percentile would flag.
type PercentileRow struct {
	Percentile int
	Threshold  float64
	Flagged    int
	Total      int
}

// impactPercentiles are the percentiles reported in the impact table.
var impactPercentiles = []int{75, 80, 85, 90, 95, 99}

// Dataset is the slice of records belonging to one testament.
type Dataset struct {
	Testament corpus.Testament
	Records   []records.ChunkRecord
}

// PartitionSummary counts how the scanned records were split.
type PartitionSummary struct {
	Found         int
	NewTestament  int
	OldTestament  int
	Uncategorized int
}

// Partition splits scanned records into per-testament datasets using the
// book partition. Records whose chapter cannot be classified are counted
// and dropped.
func Partition(scanned []records.ScannedRecord, partition *corpus.Partition) (nt, ot Dataset, summary PartitionSummary) {
	nt.Testament = corpus.NewTestament
	ot.Testament = corpus.OldTestament
	summary.Found = len(scanned)
	for _, record := range scanned {
		switch partition.Classify(record.Chapter) {
		case corpus.NewTestament:
			nt.Records = append(nt.Records, record.ChunkRecord)
			summary.NewTestament++
		case corpus.OldTestament:
			ot.Records = append(ot.Records, record.ChunkRecord)
			summary.OldTestament++
		default:
			summary.Uncategorized++
		}
	}
	return nt, ot, summary
}

// ChunkRates computes the capped normalized error rate for every record.
func ChunkRates(recs []records.ChunkRecord) []ChunkRate {
	rates := make([]ChunkRate, 0, len(recs))
	for _, record := range recs {
		length := len(textnorm.Normalize(record.OriginalText))
		rates = append(rates, ChunkRate{
			ChunkID: record.Chapter + "/" + record.Chunk,
			Rate:    scoring.ErrorRate(record.Distance, length),
		})
	}
	return rates
}

// ChapterRates aggregates distances and normalized lengths per chapter and
// returns chapters ordered worst first. Ties keep chapter-name order.
func ChapterRates(recs []records.ChunkRecord) []ChapterRate {
	type tally struct {
		distance int
		length   int
	}
	byChapter := make(map[string]*tally)
	for _, record := range recs {
		entry, ok := byChapter[record.Chapter]
		if !ok {
			entry = &tally{}
			byChapter[record.Chapter] = entry
		}
		entry.distance += record.Distance
		entry.length += len(textnorm.Normalize(record.OriginalText))
	}

	names := make([]string, 0, len(byChapter))
	for name := range byChapter {
		names = append(names, name)
	}
	sort.Strings(names)

	rates := make([]ChapterRate, 0, len(names))
	for _, name := range names {
		entry := byChapter[name]
		rates = append(rates, ChapterRate{
			Chapter: name,
			Rate:    scoring.AggregateRate(entry.distance, entry.length),
		})
	}
	sort.SliceStable(rates, func(i, j int) bool { return rates[i].Rate > rates[j].Rate })
	return rates
}

// FlaggedChunks returns the chunks whose rate strictly exceeds threshold,
// sorted ascending so the most recoverable items come first.
func FlaggedChunks(rates []ChunkRate, threshold float64) []ChunkRate {
	var flagged []ChunkRate
	for _, rate := range rates {
		if rate.Rate > threshold {
			flagged = append(flagged, rate)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool { return flagged[i].Rate < flagged[j].Rate })
	return flagged
}

// FlaggedChapters returns the chapters whose aggregated rate strictly
// exceeds threshold, sorted ascending.
func FlaggedChapters(rates []ChapterRate, threshold float64) []ChapterRate {
	var flagged []ChapterRate
	for _, rate := range rates {
		if rate.Rate > threshold {
			flagged = append(flagged, rate)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool { return flagged[i].Rate < flagged[j].Rate })
	return flagged
}

// Quantile interpolates the q-th quantile (0..1) of values using linear
// interpolation between closest ranks.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// PercentileImpact computes, for each reporting percentile, the statistical
// threshold and how many values a strict comparison against it would flag.
func PercentileImpact(values []float64) []PercentileRow {
	if len(values) == 0 {
		return nil
	}
	rows := make([]PercentileRow, 0, len(impactPercentiles))
	for _, percentile := range impactPercentiles {
		threshold := Quantile(values, float64(percentile)/100)
		flagged := 0
		for _, value := range values {
			if value > threshold {
				flagged++
			}
		}
		rows = append(rows, PercentileRow{
			Percentile: percentile,
			Threshold:  threshold,
			Flagged:    flagged,
			Total:      len(values),
		})
	}
	return rows
}

// thresholdSlug renders a threshold for use in artifact file names, with
// the decimal point replaced so names stay portable.
func thresholdSlug(threshold float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(threshold, 'g', -1, 64), ".", "_")
}

// ArtifactNames returns the four report file names for a testament at the
// given flagging threshold.
func ArtifactNames(testament corpus.Testament, threshold float64) (chunks, chapters, flaggedChunks, flaggedChapters string) {
	name := testament.String()
	slug := thresholdSlug(threshold)
	chunks = fmt.Sprintf("1_%s_individual_chunks_analysis.json", name)
	chapters = fmt.Sprintf("2_%s_chapter_level_analysis.json", name)
	flaggedChunks = fmt.Sprintf("3_%s_chunks_over_threshold_%s.json", name, slug)
	flaggedChapters = fmt.Sprintf("4_%s_chapters_over_threshold_%s.json", name, slug)
	return
}

// Result is the outcome of analyzing one testament.
type Result struct {
	Testament       corpus.Testament
	Chunks          []ChunkRate
	Chapters        []ChapterRate
	FlaggedChunks   []ChunkRate
	FlaggedChapters []ChapterRate
	ChunkImpact     []PercentileRow
	ChapterImpact   []PercentileRow
}

// Analyzer runs the full four-stage analysis and writes the JSON artifacts
// into the result root.
type Analyzer struct {
	outDir string
	logger *slog.Logger
}

// New creates an analyzer writing artifacts into outDir.
func New(outDir string, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{outDir: outDir, logger: logger}
}

// Analyze runs all stages for one testament dataset at the given flagging
// threshold. An empty dataset produces a nil result and no artifacts.
func (a *Analyzer) Analyze(dataset Dataset, threshold float64) (*Result, error) {
	if len(dataset.Records) == 0 {
		a.logger.Info("no data for testament, skipping analysis",
			logging.String("testament", dataset.Testament.String()))
		return nil, nil
	}

	chunkName, chapterName, flaggedChunkName, flaggedChapterName := ArtifactNames(dataset.Testament, threshold)

	result := &Result{Testament: dataset.Testament}
	result.Chunks = ChunkRates(dataset.Records)
	report := chunkReport{
		Summary:   chunkSummary{TotalChunks: len(result.Chunks)},
		AllChunks: result.Chunks,
	}
	if err := a.write(chunkName, report); err != nil {
		return nil, err
	}
	result.ChunkImpact = PercentileImpact(chunkRateValues(result.Chunks))

	result.Chapters = ChapterRates(dataset.Records)
	if err := a.write(chapterName, result.Chapters); err != nil {
		return nil, err
	}
	result.ChapterImpact = PercentileImpact(chapterRateValues(result.Chapters))

	result.FlaggedChunks = FlaggedChunks(result.Chunks, threshold)
	if len(result.FlaggedChunks) > 0 {
		if err := a.write(flaggedChunkName, result.FlaggedChunks); err != nil {
			return nil, err
		}
	} else {
		a.logger.Info("no chunks exceed the flagging threshold",
			logging.String("testament", dataset.Testament.String()),
			logging.Float64("threshold", threshold))
	}

	result.FlaggedChapters = FlaggedChapters(result.Chapters, threshold)
	if len(result.FlaggedChapters) > 0 {
		if err := a.write(flaggedChapterName, result.FlaggedChapters); err != nil {
			return nil, err
		}
	} else {
		a.logger.Info("no chapters exceed the flagging threshold",
			logging.String("testament", dataset.Testament.String()),
			logging.Float64("threshold", threshold))
	}

	a.logger.Info("analysis artifacts written",
		logging.String("testament", dataset.Testament.String()),
		logging.Int("chunks", len(result.Chunks)),
		logging.Int("chapters", len(result.Chapters)),
		logging.Int("flagged_chunks", len(result.FlaggedChunks)),
		logging.Int("flagged_chapters", len(result.FlaggedChapters)))
	return result, nil
}

func (a *Analyzer) write(name string, payload any) error {
	path := filepath.Join(a.outDir, name)
	if err := fileutil.WriteJSONAtomic(path, payload); err != nil {
		return fmt.Errorf("write analysis artifact %s: %w", name, err)
	}
	a.logger.Info("report saved", logging.String("path", path))
	return nil
}

func chunkRateValues(rates []ChunkRate) []float64 {
	values := make([]float64, len(rates))
	for i, rate := range rates {
		values[i] = rate.Rate
	}
	return values
}

func chapterRateValues(rates []ChapterRate) []float64 {
	values := make([]float64, len(rates))
	for i, rate := range rates {
		values[i] = rate.Rate
	}
	return values
}
