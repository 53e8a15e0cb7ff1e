// Package deps verifies that the external binaries a pipeline run depends on
// are present before any work is queued. A missing required tool is a fatal
// precondition, not a per-file failure.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external command a subcommand relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found on PATH", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Require returns an error describing the first unavailable requirement, or
// nil when everything is present. Callers run this before populating any
// work queue so a missing tool aborts the run instead of degrading per file.
func Require(requirements ...Requirement) error {
	for _, status := range Check(requirements) {
		if !status.Available {
			return fmt.Errorf("%s unavailable: %s (%s)", status.Name, status.Detail, status.Description)
		}
	}
	return nil
}
