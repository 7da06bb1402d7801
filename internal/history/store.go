package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cuekit/internal/config"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the history database under the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin records a new running entry and returns it with a fresh id.
func (s *Store) Begin(ctx context.Context, run Run) (*Run, error) {
	if strings.TrimSpace(run.CuePath) == "" {
		return nil, errors.New("begin run: cue path is required")
	}
	run.ID = uuid.NewString()
	run.Status = StatusRunning
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, cue_path, media_path, output_dir, format, policy, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CuePath, run.MediaPath, run.OutputDir, run.Format, run.Policy,
		run.Status, formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &run, nil
}

// Finish moves a run to a terminal status.
func (s *Store) Finish(ctx context.Context, id string, status Status, tracks int, runErr error) error {
	if status == StatusRunning {
		return fmt.Errorf("finish run %s: status must be terminal", id)
	}
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, tracks = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		status, tracks, message, formatTime(time.Now().UTC()), id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// Get fetches a run by id. A unique id prefix is accepted too.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.queryRuns(ctx, "WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2", id, id+"%")
	if err != nil {
		return nil, err
	}
	switch {
	case len(rows) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(rows) > 1 && rows[0].ID != id:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
	return &rows[0], nil
}

// List returns the most recent runs first, optionally filtered by status.
// A non-positive limit returns every run.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]Run, error) {
	var (
		clauses []string
		args    []any
	)
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		clauses = append(clauses, "WHERE status IN ("+strings.Join(placeholders, ",")+")")
	}
	clauses = append(clauses, "ORDER BY started_at DESC")
	if limit > 0 {
		clauses = append(clauses, "LIMIT ?")
		args = append(args, limit)
	}
	return s.queryRuns(ctx, strings.Join(clauses, " "), args...)
}

// LatestForCue returns the newest run recorded for a cuesheet, or nil.
func (s *Store) LatestForCue(ctx context.Context, cuePath string) (*Run, error) {
	rows, err := s.queryRuns(ctx, "WHERE cue_path = ? ORDER BY started_at DESC LIMIT 1", cuePath)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Stats counts runs per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM runs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// Clear removes finished runs, or every run when all is set.
func (s *Store) Clear(ctx context.Context, all bool) (int64, error) {
	query := "DELETE FROM runs WHERE status != ?"
	args := []any{StatusRunning}
	if all {
		query = "DELETE FROM runs"
		args = nil
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// ResetStale fails runs left in the running state by an interrupted process.
func (s *Store) ResetStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().UTC().Add(-olderThan))
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE status = ? AND started_at < ?`,
		StatusFailed, "interrupted", formatTime(time.Now().UTC()), StatusRunning, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stale runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) queryRuns(ctx context.Context, tail string, args ...any) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, cue_path, media_path, output_dir, format, policy, status, tracks,
        error_message, started_at, finished_at FROM runs ` + tail
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			status           string
			started, stopped string
		)
		if err := rows.Scan(&run.ID, &run.CuePath, &run.MediaPath, &run.OutputDir, &run.Format,
			&run.Policy, &status, &run.Tracks, &run.ErrorMessage, &started, &stopped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Status = Status(status)
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(stopped)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
