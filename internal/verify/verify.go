// Package verify cross-checks the chapter list in a plain-text file against
// the directory names recorded in a catalog JSON, reporting the differences
// in both directions.
package verify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// abbreviationPattern captures the book abbreviation at the start of a
// chapter reference, e.g. "1Thess5" yields "1Thess".
var abbreviationPattern = regexp.MustCompile(`^([1-3]?[A-Za-z]+)`)

// Diff holds the inconsistencies between the two sources.
type Diff struct {
	// MissingFromJSON lists abbreviations present in the text file but
	// absent from the catalog.
	MissingFromJSON []string
	// MissingFromTxt lists catalog directory names absent from the text
	// file.
	MissingFromTxt []string
}

// Consistent reports whether the two sources agree.
func (d Diff) Consistent() bool {
	return len(d.MissingFromJSON) == 0 && len(d.MissingFromTxt) == 0
}

// AbbreviationsFromTxt extracts the unique book abbreviations from a text
// file listing one chapter reference per line.
func AbbreviationsFromTxt(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chapter list: %w", err)
	}
	defer file.Close()

	abbreviations := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if match := abbreviationPattern.FindStringSubmatch(line); match != nil {
			abbreviations[match[1]] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chapter list: %w", err)
	}
	return abbreviations, nil
}

// DirectoryNamesFromJSON extracts the directory_name values from a catalog
// file holding a list of book objects.
func DirectoryNamesFromJSON(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var books []struct {
		DirectoryName string `json:"directory_name"`
	}
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	names := make(map[string]struct{})
	for _, book := range books {
		if book.DirectoryName != "" {
			names[book.DirectoryName] = struct{}{}
		}
	}
	return names, nil
}

// Compare diffs the chapter list against the catalog.
func Compare(txtPath, jsonPath string) (Diff, error) {
	abbreviations, err := AbbreviationsFromTxt(txtPath)
	if err != nil {
		return Diff{}, err
	}
	names, err := DirectoryNamesFromJSON(jsonPath)
	if err != nil {
		return Diff{}, err
	}

	var diff Diff
	for abbreviation := range abbreviations {
		if _, ok := names[abbreviation]; !ok {
			diff.MissingFromJSON = append(diff.MissingFromJSON, abbreviation)
		}
	}
	for name := range names {
		if _, ok := abbreviations[name]; !ok {
			diff.MissingFromTxt = append(diff.MissingFromTxt, name)
		}
	}
	sort.Strings(diff.MissingFromJSON)
	sort.Strings(diff.MissingFromTxt)
	return diff, nil
}
