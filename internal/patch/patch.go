// Package patch rescans persisted chunk records for transcriptions that
// carry a spoken introduction before the actual reading. The literal
// distance score misses these, so matching records get flagged with the
// sentinel distance and picked up by the next analysis run.
package patch

import (
	"log/slog"
	"strings"

	"vorleser/internal/logging"
	"vorleser/internal/records"
	"vorleser/internal/scoring"
	"vorleser/internal/textnorm"
)

// snippetWords is how many leading words of the original text form the
// marker snippet. Shorter originals are skipped as unreliable.
const snippetWords = 5

// Summary reports what a patch pass did.
type Summary struct {
	Scanned  int
	Modified int
}

// HasIntroError reports whether the transcription contains the original's
// opening snippet somewhere past its own start. That shape means the
// reading is present but preceded by extra speech.
func HasIntroError(originalText, transcribedText string) bool {
	if originalText == "" || transcribedText == "" {
		return false
	}
	normOriginal := textnorm.Normalize(originalText)
	normTranscribed := textnorm.Normalize(transcribedText)

	words := textnorm.Words(normOriginal)
	if len(words) < snippetWords {
		return false
	}
	snippet := strings.Join(words[:snippetWords], " ")
	return strings.Contains(normTranscribed, snippet) && !strings.HasPrefix(normTranscribed, snippet)
}

// Run scans every record in the store and rewrites those matching the
// intro-error pattern with the sentinel distance. Records already carrying
// the sentinel are left untouched, so the pass is idempotent.
func Run(store *records.Store, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	scanned, err := store.Scan(logger)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Scanned: len(scanned)}
	if len(scanned) == 0 {
		logger.Info("no chunk results found to patch")
		return summary, nil
	}

	for _, record := range scanned {
		if !HasIntroError(record.OriginalText, record.TranscribedText) {
			continue
		}
		if record.Distance == scoring.SentinelDistance {
			continue
		}
		record.Distance = scoring.SentinelDistance
		if err := store.Write(record.ChunkRecord); err != nil {
			return summary, err
		}
		summary.Modified++
		logger.Info("flagged intro error",
			logging.String("chapter", record.Chapter),
			logging.String("chunk", record.Chunk))
	}

	logger.Info("patching complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("modified", summary.Modified))
	return summary, nil
}
