package analysis

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"vorleser/internal/config"
	"vorleser/internal/corpus"
	"vorleser/internal/records"
)

func record(chapter, chunk string, distance int, original string) records.ChunkRecord {
	return records.ChunkRecord{
		Chapter:      chapter,
		Chunk:        chunk,
		Distance:     distance,
		OriginalText: original,
	}
}

func scanned(recs ...records.ChunkRecord) []records.ScannedRecord {
	out := make([]records.ScannedRecord, len(recs))
	for i, rec := range recs {
		out[i] = records.ScannedRecord{ChunkRecord: rec}
	}
	return out
}

func TestPartitionSplitsByTestament(t *testing.T) {
	partition := corpus.NewPartition(config.Default().Books)
	nt, ot, summary := Partition(scanned(
		record("Gen1", "001", 0, "a"),
		record("Mt5", "001", 2, "b"),
		record("Xyz9", "001", 1, "c"),
	), partition)

	if summary.Found != 3 || summary.NewTestament != 1 || summary.OldTestament != 1 || summary.Uncategorized != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(nt.Records) != 1 || nt.Records[0].Chapter != "Mt5" {
		t.Errorf("nt records = %+v", nt.Records)
	}
	if len(ot.Records) != 1 || ot.Records[0].Chapter != "Gen1" {
		t.Errorf("ot records = %+v", ot.Records)
	}
}

func TestChunkRates(t *testing.T) {
	rates := ChunkRates([]records.ChunkRecord{
		record("Gen1", "001", 0, "im anfang schuf gott himmel und erde"),
		record("Gen1", "002", 4, "und die erde war wuest und leer"),
		record("Gen1", "003", 999, "kurz"),
		record("Gen1", "004", 3, ""),
	})
	if len(rates) != 4 {
		t.Fatalf("got %d rates", len(rates))
	}
	if rates[0].ChunkID != "Gen1/001" || rates[0].Rate != 0 {
		t.Errorf("rate 0 = %+v", rates[0])
	}
	if want := 4.0 / 31.0; rates[1].Rate != want {
		t.Errorf("rate 1 = %v, want %v", rates[1].Rate, want)
	}
	if rates[2].Rate != 1.0 {
		t.Errorf("sentinel distance must cap at 1.0, got %v", rates[2].Rate)
	}
	if rates[3].Rate != 1.0 {
		t.Errorf("empty original must rate 1.0, got %v", rates[3].Rate)
	}
}

func TestChapterRatesWorstFirst(t *testing.T) {
	rates := ChapterRates([]records.ChunkRecord{
		record("Gen1", "001", 0, "im anfang schuf gott himmel und erde"),
		record("Gen1", "002", 4, "und die erde war wuest und leer"),
		record("Gen2", "001", 20, "so wurden vollendet himmel und erde"),
	})
	if len(rates) != 2 {
		t.Fatalf("got %d chapters", len(rates))
	}
	if rates[0].Chapter != "Gen2" {
		t.Errorf("worst chapter = %q, want Gen2", rates[0].Chapter)
	}
	if want := 4.0 / 67.0; rates[1].Rate != want {
		t.Errorf("Gen1 aggregate = %v, want %v", rates[1].Rate, want)
	}
}

func TestFlaggedListsStrictAndAscending(t *testing.T) {
	rates := []ChunkRate{
		{ChunkID: "a", Rate: 0.10},
		{ChunkID: "b", Rate: 0.30},
		{ChunkID: "c", Rate: 0.15},
	}
	flagged := FlaggedChunks(rates, 0.10)
	if len(flagged) != 2 {
		t.Fatalf("flagged = %+v, rate equal to the threshold must not flag", flagged)
	}
	if flagged[0].ChunkID != "c" || flagged[1].ChunkID != "b" {
		t.Errorf("flagged order = %+v, want ascending by rate", flagged)
	}
}

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{0.0, 0.1, 0.2, 0.3, 0.4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0.0, 0.0},
		{0.5, 0.2},
		{0.75, 0.3},
		{0.9, 0.36},
		{1.0, 0.4},
	}
	for _, tt := range tests {
		if got := Quantile(values, tt.q); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestPercentileImpact(t *testing.T) {
	values := []float64{0.0, 0.1, 0.2, 0.3, 0.4}
	rows := PercentileImpact(values)
	if len(rows) != 6 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Percentile != 75 || rows[0].Flagged != 1 {
		t.Errorf("75th row = %+v, want 1 flagged above 0.3", rows[0])
	}
	for _, row := range rows {
		if row.Total != len(values) {
			t.Errorf("row total = %d", row.Total)
		}
	}
	if PercentileImpact(nil) != nil {
		t.Error("empty input must produce no rows")
	}
}

func TestArtifactNames(t *testing.T) {
	chunks, chapters, flaggedChunks, flaggedChapters := ArtifactNames(corpus.NewTestament, 0.10)
	if chunks != "1_NT_individual_chunks_analysis.json" {
		t.Errorf("chunks = %q", chunks)
	}
	if chapters != "2_NT_chapter_level_analysis.json" {
		t.Errorf("chapters = %q", chapters)
	}
	if flaggedChunks != "3_NT_chunks_over_threshold_0_1.json" {
		t.Errorf("flagged chunks = %q", flaggedChunks)
	}
	if flaggedChapters != "4_NT_chapters_over_threshold_0_1.json" {
		t.Errorf("flagged chapters = %q", flaggedChapters)
	}

	_, _, flaggedChunks, _ = ArtifactNames(corpus.OldTestament, 0.15)
	if flaggedChunks != "3_OT_chunks_over_threshold_0_15.json" {
		t.Errorf("OT flagged chunks = %q", flaggedChunks)
	}
}

func TestAnalyzeWritesArtifacts(t *testing.T) {
	outDir := t.TempDir()
	analyzer := New(outDir, nil)

	dataset := Dataset{
		Testament: corpus.NewTestament,
		Records: []records.ChunkRecord{
			record("Mt5", "001", 0, "selig sind die armen im geiste"),
			record("Mt5", "002", 25, "denn ihrer ist das himmelreich"),
		},
	}
	result, err := analyzer.Analyze(dataset, 0.10)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result == nil {
		t.Fatal("result is nil for a non-empty dataset")
	}
	if len(result.FlaggedChunks) != 1 {
		t.Errorf("flagged chunks = %+v", result.FlaggedChunks)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "1_NT_individual_chunks_analysis.json"))
	if err != nil {
		t.Fatalf("read chunk artifact: %v", err)
	}
	var report struct {
		Summary struct {
			TotalChunks int `json:"total_chunks"`
		} `json:"summary_statistics"`
		AllChunks []ChunkRate `json:"all_chunks"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("decode chunk artifact: %v", err)
	}
	if report.Summary.TotalChunks != 2 || len(report.AllChunks) != 2 {
		t.Errorf("chunk artifact = %+v", report)
	}

	for _, name := range []string{
		"2_NT_chapter_level_analysis.json",
		"3_NT_chunks_over_threshold_0_1.json",
		"4_NT_chapters_over_threshold_0_1.json",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestAnalyzeSkipsEmptyDataset(t *testing.T) {
	outDir := t.TempDir()
	result, err := New(outDir, nil).Analyze(Dataset{Testament: corpus.OldTestament}, 0.15)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("artifacts written for empty dataset: %v", entries)
	}
}
