// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vorleser/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WavDir = filepath.Join(base, "wav")
	cfg.Paths.ChaptersDir = filepath.Join(base, "chapters")
	cfg.Paths.CheckDir = filepath.Join(base, "audio-check")
	cfg.Paths.TxtDir = filepath.Join(base, "txt")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers overrides the transcriber worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcriber.Workers = workers
	}
}

// WriteChunk creates a paired audio and ground-truth text file for the given
// chunk key and returns the audio path.
func WriteChunk(t testing.TB, cfg *config.Config, chapter, chunk, text string) string {
	t.Helper()

	wavPath := filepath.Join(cfg.Paths.WavDir, chapter, chunk+".wav")
	if err := os.MkdirAll(filepath.Dir(wavPath), 0o755); err != nil {
		t.Fatalf("create chapter audio dir: %v", err)
	}
	if err := os.WriteFile(wavPath, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio chunk: %v", err)
	}

	if text != "" {
		txtPath := filepath.Join(cfg.Paths.ChaptersDir, chapter, chunk+".txt")
		if err := os.MkdirAll(filepath.Dir(txtPath), 0o755); err != nil {
			t.Fatalf("create chapter text dir: %v", err)
		}
		if err := os.WriteFile(txtPath, []byte(text+"\n"), 0o644); err != nil {
			t.Fatalf("write ground truth: %v", err)
		}
	}
	return wavPath
}
