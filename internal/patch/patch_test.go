package patch

import (
	"path/filepath"
	"testing"

	"vorleser/internal/records"
	"vorleser/internal/scoring"
)

func TestHasIntroError(t *testing.T) {
	original := "Im Anfang schuf Gott Himmel und Erde."
	tests := []struct {
		name        string
		original    string
		transcribed string
		want        bool
	}{
		{
			name:        "intro before reading",
			original:    original,
			transcribed: "This is chapter one. Im Anfang schuf Gott Himmel und Erde.",
			want:        true,
		},
		{
			name:        "clean transcription starts with snippet",
			original:    original,
			transcribed: "Im Anfang schuf Gott Himmel und Erde.",
			want:        false,
		},
		{
			name:        "snippet absent entirely",
			original:    original,
			transcribed: "Something completely different was said here.",
			want:        false,
		},
		{
			name:        "original too short for a snippet",
			original:    "Und Gott sprach",
			transcribed: "Intro words. Und Gott sprach",
			want:        false,
		},
		{
			name:        "punctuation differences ignored",
			original:    "Im Anfang, schuf Gott: Himmel und Erde!",
			transcribed: "Kapitel eins. im anfang schuf gott himmel und erde",
			want:        true,
		},
		{
			name:     "empty transcription",
			original: original,
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasIntroError(tt.original, tt.transcribed); got != tt.want {
				t.Errorf("HasIntroError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunFlagsAndIsIdempotent(t *testing.T) {
	store := records.NewStore(filepath.Join(t.TempDir(), "audio-check"))
	clean := records.ChunkRecord{
		Chapter:         "Gen1",
		Chunk:           "001",
		Distance:        0,
		OriginalText:    "Im Anfang schuf Gott Himmel und Erde.",
		TranscribedText: "im anfang schuf gott himmel und erde",
	}
	withIntro := records.ChunkRecord{
		Chapter:         "Gen1",
		Chunk:           "002",
		Distance:        12,
		OriginalText:    "Und die Erde war wuest und leer und finster.",
		TranscribedText: "chapter one verse two und die erde war wuest und leer und finster",
	}
	for _, rec := range []records.ChunkRecord{clean, withIntro} {
		if err := store.Write(rec); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	summary, err := Run(store, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Scanned != 2 || summary.Modified != 1 {
		t.Errorf("summary = %+v", summary)
	}

	flagged, err := store.ReadFile(store.Path("Gen1", "002"))
	if err != nil {
		t.Fatalf("read flagged record: %v", err)
	}
	if flagged.Distance != scoring.SentinelDistance {
		t.Errorf("distance = %d, want sentinel", flagged.Distance)
	}
	if flagged.TranscribedText != withIntro.TranscribedText {
		t.Error("patching must not rewrite the transcription")
	}

	untouched, err := store.ReadFile(store.Path("Gen1", "001"))
	if err != nil {
		t.Fatalf("read clean record: %v", err)
	}
	if untouched.Distance != 0 {
		t.Errorf("clean record distance = %d, want 0", untouched.Distance)
	}

	again, err := Run(store, nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if again.Modified != 0 {
		t.Errorf("second pass modified %d records, want 0", again.Modified)
	}
}

func TestRunWithEmptyStore(t *testing.T) {
	store := records.NewStore(filepath.Join(t.TempDir(), "audio-check"))
	summary, err := Run(store, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Scanned != 0 || summary.Modified != 0 {
		t.Errorf("summary = %+v", summary)
	}
}
