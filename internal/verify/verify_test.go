package verify

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAbbreviationsFromTxt(t *testing.T) {
	path := writeFile(t, "chapters.txt", "Gen1\nGen2\n\n1Thess5\nMt10\n  Offb22  \n")
	abbreviations, err := AbbreviationsFromTxt(path)
	if err != nil {
		t.Fatalf("AbbreviationsFromTxt: %v", err)
	}
	want := []string{"1Thess", "Gen", "Mt", "Offb"}
	for _, abbreviation := range want {
		if _, ok := abbreviations[abbreviation]; !ok {
			t.Errorf("missing abbreviation %q", abbreviation)
		}
	}
	if len(abbreviations) != len(want) {
		t.Errorf("abbreviations = %v", abbreviations)
	}
}

func TestDirectoryNamesFromJSON(t *testing.T) {
	path := writeFile(t, "books.json", `[
        {"book_name": "Genesis", "directory_name": "Gen", "chapters": {"1": 5}},
        {"book_name": "Nameless"},
        {"book_name": "Matthäus", "directory_name": "Mt", "chapters": {}}
    ]`)
	names, err := DirectoryNamesFromJSON(path)
	if err != nil {
		t.Fatalf("DirectoryNamesFromJSON: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v", names)
	}
	for _, name := range []string{"Gen", "Mt"} {
		if _, ok := names[name]; !ok {
			t.Errorf("missing name %q", name)
		}
	}
}

func TestDirectoryNamesFromJSONRejectsMalformed(t *testing.T) {
	path := writeFile(t, "books.json", `{"not": "a list"}`)
	if _, err := DirectoryNamesFromJSON(path); err == nil {
		t.Fatal("accepted a non-list catalog")
	}
}

func TestCompare(t *testing.T) {
	txtPath := writeFile(t, "chapters.txt", "Gen1\nMt5\nOffb22\n")
	jsonPath := writeFile(t, "books.json", `[
        {"directory_name": "Gen"},
        {"directory_name": "Mt"},
        {"directory_name": "Apg"}
    ]`)

	diff, err := Compare(txtPath, jsonPath)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if diff.Consistent() {
		t.Fatal("diff reported consistent")
	}
	if !reflect.DeepEqual(diff.MissingFromJSON, []string{"Offb"}) {
		t.Errorf("MissingFromJSON = %v", diff.MissingFromJSON)
	}
	if !reflect.DeepEqual(diff.MissingFromTxt, []string{"Apg"}) {
		t.Errorf("MissingFromTxt = %v", diff.MissingFromTxt)
	}
}

func TestCompareConsistent(t *testing.T) {
	txtPath := writeFile(t, "chapters.txt", "Gen1\nGen2\n")
	jsonPath := writeFile(t, "books.json", `[{"directory_name": "Gen"}]`)
	diff, err := Compare(txtPath, jsonPath)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !diff.Consistent() {
		t.Errorf("diff = %+v, want consistent", diff)
	}
}
