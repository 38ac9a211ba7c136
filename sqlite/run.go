package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/docplan"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docplan.RunService = (*RunService)(nil)

// RunService implements docplan.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a finished run and assigns it a new ID.
// Zero timestamps are set to the current time.
func (s *RunService) CreateRun(ctx context.Context, run *docplan.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, project_name, start_url, mode, strategy, nav_selector, content_selector,
			attempts, discovered, written, skipped, bytes, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.ProjectName, run.StartURL, string(run.Mode), string(run.Strategy),
		run.NavSelector, run.ContentSelector, run.Attempts, run.Discovered, run.Written, run.Skipped, run.Bytes,
		string(run.Status), run.Error,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339))

	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter docplan.RunFilter) ([]*docplan.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, project_name, start_url, mode, strategy, nav_selector, content_selector,
			attempts, discovered, written, skipped, bytes, status, error, started_at, finished_at
		FROM runs
		WHERE 1=1`)

	if filter.ProjectName != nil {
		query.WriteString(" AND project_name = ?")
		args = append(args, *filter.ProjectName)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*docplan.Run, 0)
	for rows.Next() {
		var run docplan.Run
		var mode, strategy, status, startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.ProjectName, &run.StartURL, &mode, &strategy,
			&run.NavSelector, &run.ContentSelector, &run.Attempts, &run.Discovered, &run.Written,
			&run.Skipped, &run.Bytes, &status, &run.Error, &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		run.Mode = docplan.RunMode(mode)
		run.Strategy = docplan.FetchStrategy(strategy)
		run.Status = docplan.RunStatus(status)

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
