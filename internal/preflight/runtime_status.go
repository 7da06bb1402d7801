package preflight

import (
	"fmt"
	"strings"

	"cuekit/internal/config"
	"cuekit/internal/deps"
)

// CheckToolsFromConfig condenses CheckSystemDeps into a single result.
func CheckToolsFromConfig(cfg *config.Config) Result {
	const name = "External tools"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	statuses := CheckSystemDeps(cfg)
	missing := MissingRequired(statuses)
	if len(missing) > 0 {
		return Result{Name: name, Detail: "Missing: " + strings.Join(missing, ", ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d required tools for %s output available", countRequired(statuses), cfg.Split.Format)}
}

// MissingRequired lists the commands of required tools that were not found.
func MissingRequired(statuses []deps.Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Command)
		}
	}
	return missing
}

func countRequired(statuses []deps.Status) int {
	n := 0
	for _, status := range statuses {
		if !status.Optional {
			n++
		}
	}
	return n
}
