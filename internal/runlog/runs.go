package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"curator/internal/dispatch"
	"curator/internal/partition"
)

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when no run matches an id or prefix.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned when an id prefix matches more than one run.
var ErrAmbiguous = errors.New("run id prefix is ambiguous")

// Run is one recorded batch execution.
type Run struct {
	ID         string
	Command    string
	Slice      partition.Spec
	Args       string
	Host       string
	Status     Status
	Summary    dispatch.Summary
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Failure is one task that did not succeed.
type Failure struct {
	Position int
	Key      string
	Status   dispatch.Status
	Message  string
}

// Begin records a new running batch and returns its generated id.
func (s *Store) Begin(ctx context.Context, command string, slice partition.Spec, args []string) (*Run, error) {
	host, _ := os.Hostname()
	run := &Run{
		ID:        uuid.NewString(),
		Command:   command,
		Slice:     slice,
		Args:      strings.Join(args, " "),
		Host:      host,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, command, slice_id, num_slices, args, host, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, slice.SliceID, slice.NumSlices, run.Args, run.Host, string(run.Status),
		run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish stores the final counts and failing keys of a run in one transaction.
func (s *Store) Finish(ctx context.Context, id string, summary dispatch.Summary, failures []Failure) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`UPDATE runs SET status = ?, total = ?, ok = ?, missing = ?, failed = ?, finished_at = ?
             WHERE id = ?`,
			string(StatusCompleted), summary.Total, summary.OK, summary.Missing, summary.Failed,
			time.Now().UTC().Format(timeLayout), id,
		)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO failures (run_id, position, task_key, status, message) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare failure insert: %w", err)
		}
		defer stmt.Close()
		for _, f := range failures {
			if _, err := stmt.ExecContext(ctx, id, f.Position, f.Key, string(f.Status), nullableString(f.Message)); err != nil {
				return fmt.Errorf("insert failure %q: %w", f.Key, err)
			}
		}
		return tx.Commit()
	})
}

// Abort marks a run as stopped before its batch completed.
func (s *Store) Abort(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(StatusAborted), nullableString(msg), time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("abort run: %w", err)
	}
	return nil
}

const runColumns = "id, command, slice_id, num_slices, args, host, status, total, ok, missing, failed, error_message, started_at, finished_at"

// List returns the most recent runs first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, command string, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if command = strings.TrimSpace(command); command != "" {
		query += " WHERE command = ?"
		args = append(args, command)
	}
	query += " ORDER BY started_at DESC, id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get resolves a full id or a unique id prefix.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2",
		idOrPrefix, stripLikeWildcards(idOrPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == idOrPrefix {
			return &run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, idOrPrefix)
	}
}

// Failures returns the recorded failures of a run in task order.
func (s *Store) Failures(ctx context.Context, id string) ([]Failure, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, task_key, status, message FROM failures WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var out []Failure
	for rows.Next() {
		var (
			f      Failure
			status string
			msg    sql.NullString
		)
		if err := rows.Scan(&f.Position, &f.Key, &status, &msg); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		f.Status = dispatch.Status(status)
		f.Message = msg.String
		out = append(out, f)
	}
	return out, rows.Err()
}

// Prune deletes finished runs that started before cutoff along with their
// failures. Running entries are kept. It returns the number of runs removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM runs WHERE status != ? AND started_at < ?`,
			string(StatusRunning), cutoff.UTC().Format(timeLayout))
		if err != nil {
			return err
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		args       sql.NullString
		host       sql.NullString
		status     string
		errMsg     sql.NullString
		startedRaw string
		finished   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID, &run.Command, &run.Slice.SliceID, &run.Slice.NumSlices, &args, &host, &status,
		&run.Summary.Total, &run.Summary.OK, &run.Summary.Missing, &run.Summary.Failed,
		&errMsg, &startedRaw, &finished,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Args = args.String
	run.Host = host.String
	run.Status = Status(status)
	run.Error = errMsg.String
	run.StartedAt = parseTime(startedRaw)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return run, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func stripLikeWildcards(value string) string {
	r := strings.NewReplacer("%", "", "_", "")
	return r.Replace(value)
}
