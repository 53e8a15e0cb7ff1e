package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vorleser/internal/logging"
	"vorleser/internal/records"
	"vorleser/internal/scoring"
	"vorleser/internal/textnorm"
)

// Transcriber is the oracle contract the processor depends on.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Outcome classifies what Process did with one audio unit.
type Outcome int

const (
	// Scored means a record was written.
	Scored Outcome = iota
	// SkippedNoText means the paired ground-truth file was absent. This is
	// a data-completeness gap, not a processing failure.
	SkippedNoText
)

// Processor scores one audio chunk end to end: load the paired ground-truth
// text, transcribe, normalize both sides, compute the distance, and persist
// the record. Stateless between calls, so any chunk can be retried
// independently.
type Processor struct {
	store       *records.Store
	oracle      Transcriber
	chaptersDir string
	logger      *slog.Logger
}

// NewProcessor wires a processor over the given store and oracle.
func NewProcessor(store *records.Store, oracle Transcriber, chaptersDir string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{store: store, oracle: oracle, chaptersDir: chaptersDir, logger: logger}
}

// ChunkKey derives the (chapter, chunk) identity from an audio path laid out
// as <wavDir>/<chapter>/<chunk>.wav.
func ChunkKey(wavPath string) (chapter, chunk string) {
	chapter = filepath.Base(filepath.Dir(wavPath))
	base := filepath.Base(wavPath)
	chunk = strings.TrimSuffix(base, filepath.Ext(base))
	return chapter, chunk
}

// Process handles a single audio unit. Oracle failures are contained here:
// they are logged with the tool's stderr and scored against an empty
// transcription rather than aborting the unit.
func (p *Processor) Process(ctx context.Context, wavPath string) (Outcome, error) {
	chapter, chunk := ChunkKey(wavPath)
	txtPath := filepath.Join(p.chaptersDir, chapter, chunk+".txt")

	originalBytes, err := os.ReadFile(txtPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("no matching text file, skipping",
				logging.String("wav", wavPath),
				logging.String("txt", txtPath))
			return SkippedNoText, nil
		}
		return SkippedNoText, fmt.Errorf("read ground truth %s: %w", txtPath, err)
	}

	transcribed, err := p.oracle.Transcribe(ctx, wavPath)
	if err != nil {
		// Score the chunk as fully untranscribed; one bad file must not
		// kill the run.
		p.logger.Warn("transcription failed", logging.String("wav", wavPath), logging.Error(err))
		transcribed = ""
	}

	original := strings.TrimSpace(string(originalBytes))
	normOriginal := textnorm.Normalize(original)
	normTranscribed := textnorm.Normalize(transcribed)
	distance := scoring.Distance(normOriginal, normTranscribed)

	record := records.ChunkRecord{
		Chapter:         chapter,
		Chunk:           chunk,
		Distance:        distance,
		OriginalText:    original,
		TranscribedText: transcribed,
	}
	if err := p.store.Write(record); err != nil {
		return SkippedNoText, fmt.Errorf("persist record %s/%s: %w", chapter, chunk, err)
	}
	return Scored, nil
}
