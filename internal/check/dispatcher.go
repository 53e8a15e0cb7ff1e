package check

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"vorleser/internal/logging"
	"vorleser/internal/records"
)

// Summary reports what a dispatcher run did.
type Summary struct {
	Found       int // audio units discovered
	AlreadyDone int // units with an existing record, filtered before dispatch
	Scored      int
	Skipped     int // missing ground-truth text
	Failed      int // unit-level processing errors
}

// Pending returns how many units were actually dispatched.
func (s Summary) Pending() int {
	return s.Found - s.AlreadyDone
}

// Dispatcher drains a queue of audio units through a fixed-size worker pool.
// Completion order across workers is not guaranteed; resumability comes from
// filtering units whose record already exists before anything is queued.
type Dispatcher struct {
	processor *Processor
	store     *records.Store
	workers   int
	logger    *slog.Logger
	progress  bool
}

// NewDispatcher creates a dispatcher running at most workers units in flight.
func NewDispatcher(processor *Processor, store *records.Store, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{processor: processor, store: store, workers: workers, logger: logger}
}

// WithProgress enables a console progress bar during the run.
func (d *Dispatcher) WithProgress(enabled bool) *Dispatcher {
	d.progress = enabled
	return d
}

// FindAudioChunks enumerates all .wav files under wavDir in sorted order.
func FindAudioChunks(wavDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(wavDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan audio directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Run filters already-scored units out of wavPaths and processes the rest
// with the worker pool. Unit-level errors are contained, logged, and
// counted; Run only fails on context cancellation. Workers exit when the
// queue drains, so no unit is ever abandoned mid-processing.
func (d *Dispatcher) Run(ctx context.Context, wavPaths []string) (Summary, error) {
	summary := Summary{Found: len(wavPaths)}

	pending := make([]string, 0, len(wavPaths))
	for _, wavPath := range wavPaths {
		chapter, chunk := ChunkKey(wavPath)
		if d.store.Exists(chapter, chunk) {
			summary.AlreadyDone++
			continue
		}
		pending = append(pending, wavPath)
	}
	if len(pending) == 0 {
		d.logger.Info("all audio chunks already have results", logging.Int("found", summary.Found))
		return summary, nil
	}

	d.logger.Info("processing audio chunks",
		logging.Int("pending", len(pending)),
		logging.Int("already_done", summary.AlreadyDone),
		logging.Int("workers", d.workers))

	var bar *progressbar.ProgressBar
	if d.progress {
		bar = progressbar.NewOptions(len(pending),
			progressbar.OptionSetDescription("processing chunks"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	queue := make(chan string)
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		group.Go(func() error {
			for wavPath := range queue {
				outcome, err := d.processor.Process(groupCtx, wavPath)

				mu.Lock()
				switch {
				case err != nil:
					summary.Failed++
				case outcome == Scored:
					summary.Scored++
				default:
					summary.Skipped++
				}
				mu.Unlock()

				if err != nil {
					d.logger.Error("chunk processing failed", logging.String("wav", wavPath), logging.Error(err))
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			return nil
		})
	}

feed:
	for _, wavPath := range pending {
		select {
		case queue <- wavPath:
		case <-groupCtx.Done():
			break feed
		}
	}
	close(queue)

	if err := group.Wait(); err != nil {
		return summary, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	d.logger.Info("chunk processing complete",
		logging.Int("scored", summary.Scored),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}
