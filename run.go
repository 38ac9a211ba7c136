package docplan

import (
	"context"
	"time"
)

// RunMode identifies how a run obtained its plan.
type RunMode string

// Run modes.
const (
	// ModeAuto runs a proposed plan and may repair it.
	ModeAuto RunMode = "auto"

	// ModeManual runs a human-authored plan as declared.
	ModeManual RunMode = "manual"
)

// RunStatus is the terminal state of a run.
type RunStatus string

// Run statuses.
const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run summarizes one execution of the plan repair loop.
type Run struct {
	ID              string        `json:"id"`
	ProjectName     string        `json:"projectName"`
	StartURL        string        `json:"startUrl"`
	Mode            RunMode       `json:"mode"`
	Strategy        FetchStrategy `json:"strategy"`
	NavSelector     string        `json:"navSelector"`
	ContentSelector string        `json:"contentSelector"`
	Attempts        int           `json:"attempts"`
	Discovered      int           `json:"discovered"`
	Written         int           `json:"written"`
	Skipped         int           `json:"skipped"`
	Bytes           int           `json:"bytes"`
	Status          RunStatus     `json:"status"`
	Error           string        `json:"error,omitempty"`
	StartedAt       time.Time     `json:"startedAt"`
	FinishedAt      time.Time     `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ProjectName == "" {
		return Errorf(EINVALID, "run project name required")
	}
	if r.Status != RunSucceeded && r.Status != RunFailed {
		return Errorf(EINVALID, "run status %q invalid", r.Status)
	}
	return nil
}

// RunService records run history.
type RunService interface {
	// CreateRun stores a finished run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ProjectName *string `json:"projectName"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
