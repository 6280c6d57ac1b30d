// inputs: job table rows, handlers map
// outputs: job status updates, dead-letter moves on permanent failure
// error modes: db errors, handler errors
package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/jobboard/internal/db"
)

// DefaultLease is how long a claimed job may stay running before FetchNext
// hands it out again.
const DefaultLease = 15 * time.Minute

// Repository stores jobs in the jobs and dead_letter_jobs tables. All
// timestamps are unix milliseconds.
type Repository struct {
	db    *db.DB
	lease time.Duration
}

func NewRepository(d *db.DB) *Repository { return &Repository{db: d, lease: DefaultLease} }

// SetLease changes the running lease; non-positive values are ignored.
func (r *Repository) SetLease(d time.Duration) {
	if d > 0 {
		r.lease = d
	}
}

// Enqueue inserts a job into the jobs table and returns the new ID
func (r *Repository) Enqueue(ctx context.Context, j *Job) (int64, error) {
	payload := string(j.Payload)
	if j.MaxAttempts == 0 {
		j.MaxAttempts = 5
	}
	if j.ScheduledAt.IsZero() {
		j.ScheduledAt = time.Now()
	}
	now := time.Now().UTC().UnixMilli()
	q := `INSERT INTO jobs(type, payload, status, attempts, max_attempts, priority, scheduled_at, created, updated) VALUES(?,?,?,?,?,?,?,?,?)`
	res, err := r.db.Exec(ctx, q, j.Type, payload, StatusQueued, j.Attempts, j.MaxAttempts, j.Priority, j.ScheduledAt.UTC().UnixMilli(), now, now)
	if err != nil {
		return 0, fmt.Errorf("enqueue failed: %w", err)
	}
	return res.LastInsertId()
}

const jobColumns = `id, type, payload, status, attempts, max_attempts, priority, scheduled_at, next_try_at, last_error, created, updated`

func scanJob(row interface{ Scan(...any) error }) (*Job, error) {
	var (
		payload     sql.NullString
		scheduledAt int64
		nextTry     sql.NullInt64
		lastError   sql.NullString
		created     int64
		updated     int64
	)
	j := &Job{}
	if err := row.Scan(&j.ID, &j.Type, &payload, &j.Status, &j.Attempts, &j.MaxAttempts, &j.Priority, &scheduledAt, &nextTry, &lastError, &created, &updated); err != nil {
		return nil, err
	}
	j.ScheduledAt = time.UnixMilli(scheduledAt)
	j.Created = time.UnixMilli(created)
	j.Updated = time.UnixMilli(updated)
	if payload.Valid {
		j.Payload = json.RawMessage(payload.String)
	}
	if nextTry.Valid {
		t := time.UnixMilli(nextTry.Int64)
		j.NextTryAt = &t
	}
	if lastError.Valid {
		j.LastError = lastError.String
	}
	return j, nil
}

// FetchNext claims the next due job, respecting priority and schedule, and
// marks it running. A job left running past the lease by a worker that never
// finished is claimed again. It returns nil, nil when nothing is due.
func (r *Repository) FetchNext(ctx context.Context) (*Job, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch next job: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().UnixMilli()
	stale := now - r.lease.Milliseconds()
	q := `SELECT ` + jobColumns + ` FROM jobs
WHERE ((status = ? OR status = ?) AND (next_try_at IS NULL OR next_try_at <= ?) AND scheduled_at <= ?)
   OR (status = ? AND updated <= ?)
ORDER BY priority ASC, scheduled_at ASC LIMIT 1`
	j, err := scanJob(tx.QueryRowContext(ctx, q, StatusQueued, StatusRetry, now, now, StatusRunning, stale))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch next job: %w", err)
	}

	// a stale running job keeps its status, so updated is part of the guard
	res, err := tx.ExecContext(ctx, `UPDATE jobs SET status = ?, updated = ? WHERE id = ? AND status = ? AND updated = ?`, StatusRunning, now, j.ID, j.Status, j.Updated.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("claim job %d: %w", j.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// another worker claimed it first
		return nil, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("claim job %d: %w", j.ID, err)
	}

	j.Status = StatusRunning
	return j, nil
}

// Get returns a job by id, or nil, nil when it is not in the jobs table.
func (r *Repository) Get(ctx context.Context, id int64) (*Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return j, nil
}

// UpdateJob updates attempts, status, next_try_at, last_error
func (r *Repository) UpdateJob(ctx context.Context, j *Job) error {
	var nextTry any
	if j.NextTryAt != nil {
		nextTry = j.NextTryAt.UTC().UnixMilli()
	}
	q := `UPDATE jobs SET status = ?, attempts = ?, next_try_at = ?, last_error = ?, updated = ? WHERE id = ?`
	_, err := r.db.Exec(ctx, q, j.Status, j.Attempts, nextTry, j.LastError, time.Now().UTC().UnixMilli(), j.ID)
	return err
}

// MoveToDeadLetter moves a job to dead_letter_jobs and deletes the original
func (r *Repository) MoveToDeadLetter(ctx context.Context, j *Job) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := `INSERT INTO dead_letter_jobs(job_id, type, payload, attempts, last_error, failed_at) VALUES(?,?,?,?,?,?)`
	if _, err := tx.ExecContext(ctx, insert, j.ID, j.Type, string(j.Payload), j.Attempts, j.LastError, time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, j.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeadLetterCount counts dead-lettered jobs of typ.
func (r *Repository) DeadLetterCount(ctx context.Context, typ string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM dead_letter_jobs WHERE type = ?`, typ).Scan(&n)
	return n, err
}
