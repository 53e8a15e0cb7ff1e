// Package transcribe adapts the external speech-to-text command. The tool is
// treated as an opaque oracle: audio path in, transcript on stdout, exit code
// zero on success. Per-file failures surface as errors the chunk processor
// contains; a missing binary must be caught by the deps preflight before any
// work is queued.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"vorleser/internal/config"
	"vorleser/internal/deps"
)

// CommandRunner executes a command and returns its stdout and stderr. The
// default runner shells out; tests inject their own.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Service invokes the configured transcription command on audio files.
type Service struct {
	cfg    config.Transcriber
	runner CommandRunner
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg config.Transcriber) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.runner = runner
}

// Requirement describes the external binary this service needs, for the
// preflight check that gates the whole run.
func (s *Service) Requirement() deps.Requirement {
	return deps.Requirement{
		Name:        "transcriber",
		Command:     s.cfg.Command,
		Description: "local speech-to-text command producing a transcript on stdout",
	}
}

// Transcribe runs the oracle on one audio file and returns the transcript
// with surrounding whitespace trimmed. A non-zero exit or any other
// execution failure is returned as an error carrying the tool's stderr; the
// caller decides whether that dooms the run or only the file.
func (s *Service) Transcribe(ctx context.Context, wavPath string) (string, error) {
	args := []string{"-d", "-i", wavPath, "-l", s.cfg.Locale}

	stdout, stderr, err := s.run(ctx, s.cfg.Command, args...)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			return "", fmt.Errorf("%s %s: %w", s.cfg.Command, wavPath, err)
		}
		return "", fmt.Errorf("%s %s: %w: %s", s.cfg.Command, wavPath, err, detail)
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
