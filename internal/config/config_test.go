package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Transcriber.Workers != 20 {
		t.Errorf("Workers = %d, want 20", cfg.Transcriber.Workers)
	}
	if len(cfg.Books.NewTestament) != 27 {
		t.Errorf("NewTestament books = %d, want 27", len(cfg.Books.NewTestament))
	}
	if len(cfg.Books.OldTestament) != 46 {
		t.Errorf("OldTestament books = %d, want 46", len(cfg.Books.OldTestament))
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for missing config file")
	}
	if cfg.Transcriber.Command != "hear" {
		t.Errorf("Command = %q, want hear", cfg.Transcriber.Command)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[transcriber]
command = "whisper-cli"
workers = 4

[analysis]
nt_threshold = 0.2
ot_threshold = 0.3

[books]
new_testament = ["Mt"]
old_testament = ["Gen"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for present config file")
	}
	if resolved == "" {
		t.Fatal("resolved path empty")
	}
	if cfg.Transcriber.Command != "whisper-cli" || cfg.Transcriber.Workers != 4 {
		t.Errorf("transcriber = %+v", cfg.Transcriber)
	}
	if cfg.Analysis.NTThreshold != 0.2 || cfg.Analysis.OTThreshold != 0.3 {
		t.Errorf("analysis thresholds = %+v", cfg.Analysis)
	}
	if len(cfg.Books.NewTestament) != 1 || cfg.Books.NewTestament[0] != "Mt" {
		t.Errorf("NewTestament = %v", cfg.Books.NewTestament)
	}
}

func TestValidateRejectsOverlappingBooks(t *testing.T) {
	cfg := Default()
	cfg.Books.OldTestament = append(cfg.Books.OldTestament, "Mt")
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted overlapping book sets")
	}
	if !strings.Contains(err.Error(), "overlap") {
		t.Errorf("error = %v, want overlap mention", err)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"zero", 0},
		{"negative", -0.1},
		{"above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Analysis.NTThreshold = tt.value
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate accepted nt_threshold = %g", tt.value)
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/corpus")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "corpus") {
		t.Errorf("ExpandPath(~/corpus) = %q", got)
	}
}
