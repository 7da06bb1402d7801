package history

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a conversion run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusRejected marks runs whose input was unusable: bad cuesheet,
	// wrong image kind, missing media.
	StatusRejected Status = "rejected"
)

var allStatuses = []Status{StatusRunning, StatusCompleted, StatusFailed, StatusRejected}

// Statuses lists every known run status.
func Statuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// Run is one recorded invocation of the split pipeline.
type Run struct {
	ID           string    `json:"id"`
	CuePath      string    `json:"cue_path"`
	MediaPath    string    `json:"media_path,omitempty"`
	OutputDir    string    `json:"output_dir,omitempty"`
	Format       string    `json:"format"`
	Policy       string    `json:"policy"`
	Status       Status    `json:"status"`
	Tracks       int       `json:"tracks"`
	ErrorMessage string    `json:"error_message,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
}

// Finished reports whether the run reached a terminal status.
func (r Run) Finished() bool {
	return r.Status != StatusRunning
}

// Duration returns the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
