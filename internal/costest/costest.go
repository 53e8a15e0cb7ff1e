// Package costest estimates the synthesis cost of the audio corpus from
// measured audio durations and the size of the source texts, using the
// configured per-token pricing model.
package costest

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"vorleser/internal/config"
	"vorleser/internal/deps"
	"vorleser/internal/logging"
)

// CommandRunner abstracts probe execution for tests.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Prober measures audio durations with ffprobe.
type Prober struct {
	command string
	runner  CommandRunner
}

// NewProber creates a prober around the configured ffprobe command.
func NewProber(command string) *Prober {
	return &Prober{command: command}
}

// WithCommandRunner replaces the process launcher. Test hook.
func (p *Prober) WithCommandRunner(runner CommandRunner) *Prober {
	p.runner = runner
	return p
}

// Requirement describes the external tool the prober depends on.
func (p *Prober) Requirement() deps.Requirement {
	return deps.Requirement{
		Name:        "audio prober",
		Command:     p.command,
		Description: "measures audio durations for cost estimation",
	}
}

// Duration returns the audio duration of the file in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	stdout, stderr, err := p.run(ctx, p.command, args...)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail != "" {
			return 0, fmt.Errorf("probe %s: %w: %s", path, err, detail)
		}
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(stdout)), 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: non-numeric duration %q", path, strings.TrimSpace(string(stdout)))
	}
	return seconds, nil
}

// Estimate is the result of a cost estimation pass.
type Estimate struct {
	FilesProcessed int
	FilesSkipped   int
	MissingSources int

	TotalSeconds    float64
	TotalInputChars int

	InputTextTokens   float64
	OutputAudioTokens float64
	InputTextCost     float64
	OutputAudioCost   float64
	TotalCost         float64
}

// Estimator walks the audio tree, probes durations, and tallies the
// corresponding source text sizes.
type Estimator struct {
	prober      *Prober
	wavDir      string
	chaptersDir string
	pricing     config.Cost
	logger      *slog.Logger
}

// NewEstimator wires an estimator over the given directories and pricing.
func NewEstimator(prober *Prober, wavDir, chaptersDir string, pricing config.Cost, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Estimator{prober: prober, wavDir: wavDir, chaptersDir: chaptersDir, pricing: pricing, logger: logger}
}

// Run probes every audio file under the audio directory. Files whose
// duration cannot be measured are skipped; audio without a paired source
// text still counts toward the audio cost.
func (e *Estimator) Run(ctx context.Context) (Estimate, error) {
	var wavPaths []string
	err := filepath.WalkDir(e.wavDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			wavPaths = append(wavPaths, path)
		}
		return nil
	})
	if err != nil {
		return Estimate{}, fmt.Errorf("scan audio directory: %w", err)
	}
	sort.Strings(wavPaths)

	var estimate Estimate
	for _, wavPath := range wavPaths {
		if err := ctx.Err(); err != nil {
			return estimate, err
		}

		seconds, err := e.prober.Duration(ctx, wavPath)
		if err != nil {
			estimate.FilesSkipped++
			e.logger.Warn("could not measure duration", logging.String("wav", wavPath), logging.Error(err))
			continue
		}
		estimate.FilesProcessed++
		estimate.TotalSeconds += seconds

		relPath, err := filepath.Rel(e.wavDir, wavPath)
		if err != nil {
			return estimate, fmt.Errorf("relativize %s: %w", wavPath, err)
		}
		txtPath := filepath.Join(e.chaptersDir, strings.TrimSuffix(relPath, filepath.Ext(relPath))+".txt")
		data, err := os.ReadFile(txtPath)
		if err != nil {
			estimate.MissingSources++
			e.logger.Warn("source text not found", logging.String("wav", wavPath), logging.String("txt", txtPath))
			continue
		}
		estimate.TotalInputChars += utf8.RuneCountInString(string(data))
	}

	if estimate.FilesProcessed == 0 {
		return estimate, nil
	}

	estimate.OutputAudioTokens = estimate.TotalSeconds * e.pricing.TokensPerSecondOfAudio
	estimate.OutputAudioCost = estimate.OutputAudioTokens / 1_000_000 * e.pricing.OutputAudioPerMillionTokens
	if e.pricing.CharsPerInputToken > 0 {
		estimate.InputTextTokens = float64(estimate.TotalInputChars) / e.pricing.CharsPerInputToken
	}
	estimate.InputTextCost = estimate.InputTextTokens / 1_000_000 * e.pricing.InputTextPerMillionTokens
	estimate.TotalCost = estimate.OutputAudioCost + estimate.InputTextCost
	return estimate, nil
}

func (p *Prober) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if p.runner != nil {
		return p.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
