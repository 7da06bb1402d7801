package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrMissingTool reports an external program that could not be located.
var ErrMissingTool = errors.New("required tool not installed")

// Locator resolves an executable name to a path.
type Locator interface {
	LookPath(name string) (string, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(name string) (string, error)

func (f LocatorFunc) LookPath(name string) (string, error) { return f(name) }

// PathLocator searches the process PATH.
type PathLocator struct{}

func (PathLocator) LookPath(name string) (string, error) { return exec.LookPath(name) }

// Requirement defines an external program cuekit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CheckBinaries evaluates the provided requirements and reports availability.
// A nil locator searches PATH.
func CheckBinaries(locator Locator, requirements []Requirement) []Status {
	if locator == nil {
		locator = PathLocator{}
	}
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := locator.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Require fails with ErrMissingTool for the first unavailable, non-optional
// requirement.
func Require(locator Locator, requirements ...Requirement) error {
	for _, status := range CheckBinaries(locator, requirements) {
		if status.Available || status.Optional {
			continue
		}
		return fmt.Errorf("%w: %s (%s)", ErrMissingTool, status.Command, status.Name)
	}
	return nil
}
