package purge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"vorleser/internal/config"
	"vorleser/internal/corpus"
	"vorleser/internal/records"
)

func scannedRecord(chapter, chunk string, distance int, original string) records.ScannedRecord {
	return records.ScannedRecord{ChunkRecord: records.ChunkRecord{
		Chapter:      chapter,
		Chunk:        chunk,
		Distance:     distance,
		OriginalText: original,
	}}
}

func TestCollectAppliesTestamentThresholds(t *testing.T) {
	partition := corpus.NewPartition(config.Default().Books)
	thresholds := config.Purge{NTThreshold: 0.036, OTThreshold: 0.057}

	// 30 normalized characters each; distances chosen around the thresholds.
	original := "im anfang schuf gott die welt1"
	entries := Collect([]records.ScannedRecord{
		scannedRecord("Mt5", "001", 2, original),  // 0.0667 > NT threshold
		scannedRecord("Mt5", "002", 1, original),  // 0.0333 under NT threshold
		scannedRecord("Gen1", "001", 2, original), // 0.0667 > OT threshold
		scannedRecord("Gen1", "002", 1, original), // 0.0333 under OT threshold
		scannedRecord("Xyz9", "001", 999, original),
	}, partition, thresholds, "wav")

	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Chapter != "Mt5" || entries[0].Chunk != "001" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[0].Threshold != 0.036 {
		t.Errorf("NT entry threshold = %v", entries[0].Threshold)
	}
	if entries[1].Threshold != 0.057 {
		t.Errorf("OT entry threshold = %v", entries[1].Threshold)
	}
	if entries[0].WavPath != filepath.Join("wav", "Mt5", "001.wav") {
		t.Errorf("wav path = %q", entries[0].WavPath)
	}
}

func TestCollectSkipsRateEqualToThreshold(t *testing.T) {
	partition := corpus.NewPartition(config.Default().Books)
	// 2 / 20 = 0.10 exactly.
	entries := Collect([]records.ScannedRecord{
		scannedRecord("Gen1", "001", 2, "abcde fghij klmno pq"),
	}, partition, config.Purge{NTThreshold: 0.036, OTThreshold: 0.10}, "wav")
	if len(entries) != 0 {
		t.Errorf("rate equal to the threshold must not flag: %+v", entries)
	}
}

func TestWriteManifestAlwaysWritesArray(t *testing.T) {
	outDir := t.TempDir()
	path, err := WriteManifest(outDir, nil)
	if err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("manifest is not a JSON array: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v", entries)
	}
	if filepath.Base(path) != ManifestFileName {
		t.Errorf("manifest name = %q", filepath.Base(path))
	}
}

type fakeRecorder struct {
	recorded []Entry
}

func (f *fakeRecorder) RecordPurgedChunk(entry Entry) error {
	f.recorded = append(f.recorded, entry)
	return nil
}

func TestDeleteRemovesOnlyListedFiles(t *testing.T) {
	wavDir := t.TempDir()
	flagged := filepath.Join(wavDir, "Gen1", "001.wav")
	kept := filepath.Join(wavDir, "Gen1", "002.wav")
	for _, path := range []string{flagged, kept} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	recorder := &fakeRecorder{}
	entries := []Entry{
		{Chapter: "Gen1", Chunk: "001", WavPath: flagged, ErrorRate: 0.5, Threshold: 0.057},
		{Chapter: "Gen1", Chunk: "003", WavPath: filepath.Join(wavDir, "Gen1", "003.wav"), ErrorRate: 0.4, Threshold: 0.057},
	}
	summary := Delete(entries, recorder, nil)

	if summary.Deleted != 1 || summary.Missing != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if _, err := os.Stat(flagged); !os.IsNotExist(err) {
		t.Error("flagged file still exists")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("unlisted file was touched: %v", err)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0].Chunk != "001" {
		t.Errorf("recorded = %+v", recorder.recorded)
	}
}
