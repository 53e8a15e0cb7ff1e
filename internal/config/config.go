package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of the corpus file tree.
type Paths struct {
	// WavDir holds the synthesized audio, one subdirectory per chapter.
	WavDir string `toml:"wav_dir"`
	// ChaptersDir holds the ground-truth text chunks mirroring WavDir.
	ChaptersDir string `toml:"chapters_dir"`
	// CheckDir is the result root for per-chunk records and reports.
	CheckDir string `toml:"check_dir"`
	// TxtDir holds the raw per-chapter source files consumed by split.
	TxtDir string `toml:"txt_dir"`
	// LogDir receives the tool log file when set.
	LogDir string `toml:"log_dir"`
}

// Transcriber configures the external speech-to-text command.
type Transcriber struct {
	Command string `toml:"command"`
	Locale  string `toml:"locale"`
	Workers int    `toml:"workers"`
}

// Books enumerates the two testament partitions by book abbreviation.
// A chapter whose leading abbreviation appears in neither set is
// uncategorized and excluded from analysis.
type Books struct {
	NewTestament []string `toml:"new_testament"`
	OldTestament []string `toml:"old_testament"`
}

// Analysis contains the manual error-rate thresholds used by the
// flagged-chunk and flagged-chapter reports.
type Analysis struct {
	NTThreshold float64 `toml:"nt_threshold"`
	OTThreshold float64 `toml:"ot_threshold"`
	// DeficientChunkPercent marks a chapter problematic in the check
	// summary when more than this percentage of its chunks have a
	// nonzero distance.
	DeficientChunkPercent float64 `toml:"deficient_chunk_percent"`
}

// Purge contains the per-testament removal thresholds. These are tuned
// separately from the analysis thresholds (typically at a chosen
// percentile of the observed distribution).
type Purge struct {
	NTThreshold float64 `toml:"nt_threshold"`
	OTThreshold float64 `toml:"ot_threshold"`
}

// Split configures the chapter text chunker.
type Split struct {
	MinWordsPerBlock int `toml:"min_words_per_block"`
}

// Cost contains the synthesis pricing model used by the cost estimator.
type Cost struct {
	InputTextPerMillionTokens   float64 `toml:"input_text_per_million_tokens"`
	OutputAudioPerMillionTokens float64 `toml:"output_audio_per_million_tokens"`
	TokensPerSecondOfAudio      float64 `toml:"tokens_per_second_of_audio"`
	CharsPerInputToken          float64 `toml:"chars_per_input_token"`
	FFprobeCommand              string  `toml:"ffprobe_command"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vorleser. The original
// batch scripts kept these as module-level constants; they are explicit
// configuration here so tests and alternate corpora can supply their own.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Transcriber Transcriber `toml:"transcriber"`
	Books       Books       `toml:"books"`
	Analysis    Analysis    `toml:"analysis"`
	Purge       Purge       `toml:"purge"`
	Split       Split       `toml:"split"`
	Cost        Cost        `toml:"cost"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration file to the given path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found; when none exists the defaults
// are returned.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.CheckDir}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %s: %w", trimmed, err)
	}
	return abs, nil
}
