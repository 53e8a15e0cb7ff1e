package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks semantic constraints that normalization cannot repair.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.WavDir == "" {
		problems = append(problems, "paths.wav_dir must be set")
	}
	if c.Paths.ChaptersDir == "" {
		problems = append(problems, "paths.chapters_dir must be set")
	}
	if c.Paths.CheckDir == "" {
		problems = append(problems, "paths.check_dir must be set")
	}

	if err := validateThreshold("analysis.nt_threshold", c.Analysis.NTThreshold); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateThreshold("analysis.ot_threshold", c.Analysis.OTThreshold); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateThreshold("purge.nt_threshold", c.Purge.NTThreshold); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateThreshold("purge.ot_threshold", c.Purge.OTThreshold); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Analysis.DeficientChunkPercent < 0 || c.Analysis.DeficientChunkPercent > 100 {
		problems = append(problems, "analysis.deficient_chunk_percent must be within [0, 100]")
	}

	if overlap := intersect(c.Books.NewTestament, c.Books.OldTestament); len(overlap) > 0 {
		problems = append(problems, fmt.Sprintf("books.new_testament and books.old_testament overlap: %s", strings.Join(overlap, ", ")))
	}

	if c.Split.MinWordsPerBlock <= 0 {
		problems = append(problems, "split.min_words_per_block must be positive")
	}
	if c.Cost.InputTextPerMillionTokens < 0 || c.Cost.OutputAudioPerMillionTokens < 0 {
		problems = append(problems, "cost rates must not be negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func validateThreshold(field string, value float64) error {
	if value <= 0 || value > 1 {
		return fmt.Errorf("%s must be within (0, 1], got %g", field, value)
	}
	return nil
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	var both []string
	for _, v := range b {
		if _, ok := set[v]; ok {
			both = append(both, v)
		}
	}
	return both
}
