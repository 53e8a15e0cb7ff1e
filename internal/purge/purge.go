// Package purge identifies audio chunks whose error rate exceeds the
// per-testament removal threshold, writes the removal manifest, and deletes
// the flagged audio files when explicitly armed. Records are never touched;
// deleting the audio lets the next check run re-record the chunk from
// scratch while the manifest keeps an audit trail.
package purge

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"vorleser/internal/config"
	"vorleser/internal/corpus"
	"vorleser/internal/fileutil"
	"vorleser/internal/logging"
	"vorleser/internal/records"
	"vorleser/internal/scoring"
	"vorleser/internal/textnorm"
)

// ManifestFileName is the removal manifest written into the result root on
// every run, dry or armed.
const ManifestFileName = "files_to_remove.json"

// Entry is one chunk slated for removal.
type Entry struct {
	Chapter   string  `json:"chapter"`
	Chunk     string  `json:"chunk"`
	WavPath   string  `json:"wav_path"`
	ErrorRate float64 `json:"error_rate"`
	Threshold float64 `json:"threshold"`
}

// Recorder receives a row for every audio file actually deleted. Satisfied
// by the run log store.
type Recorder interface {
	RecordPurgedChunk(entry Entry) error
}

// Collect scans all records and returns the chunks whose error rate
// strictly exceeds the threshold of their testament. Uncategorized chapters
// are never purged.
func Collect(scanned []records.ScannedRecord, partition *corpus.Partition, thresholds config.Purge, wavDir string) []Entry {
	var entries []Entry
	for _, record := range scanned {
		var threshold float64
		switch partition.Classify(record.Chapter) {
		case corpus.NewTestament:
			threshold = thresholds.NTThreshold
		case corpus.OldTestament:
			threshold = thresholds.OTThreshold
		default:
			continue
		}

		length := len(textnorm.Normalize(record.OriginalText))
		rate := scoring.ErrorRate(record.Distance, length)
		if rate <= threshold {
			continue
		}
		entries = append(entries, Entry{
			Chapter:   record.Chapter,
			Chunk:     record.Chunk,
			WavPath:   filepath.Join(wavDir, record.Chapter, record.Chunk+".wav"),
			ErrorRate: rate,
			Threshold: threshold,
		})
	}
	return entries
}

// WriteManifest persists the removal manifest into outDir. Always written,
// even when empty, so stale manifests from earlier runs never survive.
func WriteManifest(outDir string, entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	path := filepath.Join(outDir, ManifestFileName)
	if err := fileutil.WriteJSONAtomic(path, entries); err != nil {
		return "", err
	}
	return path, nil
}

// DeleteSummary reports what an armed deletion pass did.
type DeleteSummary struct {
	Deleted int
	Missing int
	Failed  int
}

// Delete removes the audio files named in entries, best effort. Already
// missing files are counted separately; failures are logged and skipped so
// one bad file never aborts the pass. When recorder is non-nil every
// successful deletion is recorded through it.
func Delete(entries []Entry, recorder Recorder, logger *slog.Logger) DeleteSummary {
	if logger == nil {
		logger = logging.NewNop()
	}

	var summary DeleteSummary
	for _, entry := range entries {
		err := os.Remove(entry.WavPath)
		switch {
		case err == nil:
			summary.Deleted++
			if recorder != nil {
				if recordErr := recorder.RecordPurgedChunk(entry); recordErr != nil {
					logger.Warn("failed to record purged chunk",
						logging.String("wav", entry.WavPath),
						logging.Error(recordErr))
				}
			}
		case errors.Is(err, fs.ErrNotExist):
			summary.Missing++
		default:
			summary.Failed++
			logger.Warn("failed to delete audio file",
				logging.String("wav", entry.WavPath),
				logging.Error(err))
		}
	}

	logger.Info("deletion pass complete",
		logging.Int("deleted", summary.Deleted),
		logging.Int("missing", summary.Missing),
		logging.Int("failed", summary.Failed))
	return summary
}
