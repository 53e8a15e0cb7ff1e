package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscriber()
	c.normalizeBooks()
	c.normalizeCost()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WavDir, err = ExpandPath(c.Paths.WavDir); err != nil {
		return fmt.Errorf("paths.wav_dir: %w", err)
	}
	if c.Paths.ChaptersDir, err = ExpandPath(c.Paths.ChaptersDir); err != nil {
		return fmt.Errorf("paths.chapters_dir: %w", err)
	}
	if c.Paths.CheckDir, err = ExpandPath(c.Paths.CheckDir); err != nil {
		return fmt.Errorf("paths.check_dir: %w", err)
	}
	if c.Paths.TxtDir, err = ExpandPath(c.Paths.TxtDir); err != nil {
		return fmt.Errorf("paths.txt_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Command = strings.TrimSpace(c.Transcriber.Command)
	if c.Transcriber.Command == "" {
		c.Transcriber.Command = defaultTranscriberCommand
	}
	c.Transcriber.Locale = strings.TrimSpace(c.Transcriber.Locale)
	if c.Transcriber.Locale == "" {
		c.Transcriber.Locale = defaultTranscriberLocale
	}
	if c.Transcriber.Workers <= 0 {
		c.Transcriber.Workers = defaultTranscriberWorkers
	}
}

func (c *Config) normalizeBooks() {
	c.Books.NewTestament = dedupeTrimmed(c.Books.NewTestament)
	c.Books.OldTestament = dedupeTrimmed(c.Books.OldTestament)
	if len(c.Books.NewTestament) == 0 {
		c.Books.NewTestament = append([]string(nil), defaultNewTestamentBooks...)
	}
	if len(c.Books.OldTestament) == 0 {
		c.Books.OldTestament = append([]string(nil), defaultOldTestamentBooks...)
	}
}

func (c *Config) normalizeCost() {
	c.Cost.FFprobeCommand = strings.TrimSpace(c.Cost.FFprobeCommand)
	if c.Cost.FFprobeCommand == "" {
		c.Cost.FFprobeCommand = defaultFFprobeCommand
	}
	if c.Cost.TokensPerSecondOfAudio <= 0 {
		c.Cost.TokensPerSecondOfAudio = defaultTokensPerSecondOfAudio
	}
	if c.Cost.CharsPerInputToken <= 0 {
		c.Cost.CharsPerInputToken = defaultCharsPerInputToken
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func dedupeTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
