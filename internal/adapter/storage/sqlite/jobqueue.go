package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/port"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultStaleAfter         = 5 * time.Minute
	DefaultCompletedRetention = 7 * 24 * time.Hour
	DefaultFailedRetention    = 30 * 24 * time.Hour
	DefaultListLimit          = 100
)

type JobQueue struct {
	db    *sql.DB
	blobs port.BlobStore
	log   zerolog.Logger

	now   func() time.Time
	newID func() string

	maxAttempts        int
	staleAfter         time.Duration
	completedRetention time.Duration
	failedRetention    time.Duration
}

type JobQueueOption func(*JobQueue)

func WithClock(now func() time.Time) JobQueueOption {
	return func(q *JobQueue) { q.now = now }
}

func WithIDFunc(newID func() string) JobQueueOption {
	return func(q *JobQueue) { q.newID = newID }
}

func WithMaxAttempts(n int) JobQueueOption {
	return func(q *JobQueue) {
		if n > 0 {
			q.maxAttempts = n
		}
	}
}

// WithRetention overrides the staleness threshold and both retention windows.
// Zero values keep the defaults.
func WithRetention(staleAfter, completed, failed time.Duration) JobQueueOption {
	return func(q *JobQueue) {
		if staleAfter > 0 {
			q.staleAfter = staleAfter
		}
		if completed > 0 {
			q.completedRetention = completed
		}
		if failed > 0 {
			q.failedRetention = failed
		}
	}
}

// NewJobQueue builds the queue on the store's database. blobs is used by
// CleanupFailed to reclaim the source blobs of jobs the pipeline gave up on.
func NewJobQueue(store *Store, blobs port.BlobStore, opts ...JobQueueOption) *JobQueue {
	q := &JobQueue{
		db:                 store.db,
		blobs:              blobs,
		log:                logger.Component("job-queue"),
		now:                time.Now,
		newID:              uuid.NewString,
		maxAttempts:        domain.DefaultMaxAttempts,
		staleAfter:         DefaultStaleAfter,
		completedRetention: DefaultCompletedRetention,
		failedRetention:    DefaultFailedRetention,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

const jobColumns = `id, media_id, type, status, source_path, target_path, error,
	attempts, max_attempts, created_at, started_at, completed_at`

func (q *JobQueue) Enqueue(ctx context.Context, job domain.NewJob) (string, error) {
	if job.MediaID == "" {
		return "", fmt.Errorf("enqueue: media id is required")
	}
	if job.Type == "" {
		return "", fmt.Errorf("enqueue: job type is required")
	}
	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = q.maxAttempts
	}

	id := q.newID()
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO job (id, media_id, type, status, source_path, target_path, attempts, max_attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		id, job.MediaID, string(job.Type), string(domain.JobStatusPending),
		job.SourcePath, job.TargetPath, maxAttempts, toMillis(q.now()),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue job for media %s: %w", job.MediaID, err)
	}
	return id, nil
}

// ClaimNext reads the oldest eligible pending job, then claims it with an
// UPDATE conditioned on status still being pending. Losing that race yields
// (nil, nil) rather than moving on to another candidate.
func (q *JobQueue) ClaimNext(ctx context.Context, jobType domain.JobType) (*domain.Job, error) {
	var candidateID string
	err := q.db.QueryRowContext(ctx, `
		SELECT id FROM job
		WHERE type = ? AND status = ? AND attempts < max_attempts
		ORDER BY created_at, rowid
		LIMIT 1`,
		string(jobType), string(domain.JobStatusPending),
	).Scan(&candidateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select next %s job: %w", jobType, err)
	}

	row := q.db.QueryRowContext(ctx, `
		UPDATE job
		SET status = ?, started_at = ?, attempts = attempts + 1
		WHERE id = ? AND status = ?
		RETURNING `+jobColumns,
		string(domain.JobStatusProcessing), toMillis(q.now()),
		candidateID, string(domain.JobStatusPending),
	)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim job %s: %w", candidateID, err)
	}
	return job, nil
}

func (q *JobQueue) Complete(ctx context.Context, jobID string) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE job SET status = ?, completed_at = ? WHERE id = ?`,
		string(domain.JobStatusCompleted), toMillis(q.now()), jobID,
	)
	if err != nil {
		return fmt.Errorf("complete job %s: %w", jobID, err)
	}
	return requireRow(res, jobID)
}

// Fail records a failed attempt. A job whose attempts reached its budget
// becomes failed for good; otherwise it returns to pending. started_at is
// cleared in both cases. The resulting status is returned.
func (q *JobQueue) Fail(ctx context.Context, jobID string, errMsg string) (domain.JobStatus, error) {
	var status string
	err := q.db.QueryRowContext(ctx, `
		UPDATE job
		SET status = CASE WHEN attempts >= max_attempts THEN ? ELSE ? END,
			completed_at = CASE WHEN attempts >= max_attempts THEN ? ELSE NULL END,
			error = ?,
			started_at = NULL
		WHERE id = ?
		RETURNING status`,
		string(domain.JobStatusFailed), string(domain.JobStatusPending),
		toMillis(q.now()), errMsg, jobID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("fail job %s: %w", jobID, domain.ErrNotFound)
		}
		return "", fmt.Errorf("fail job %s: %w", jobID, err)
	}
	return domain.JobStatus(status), nil
}

// RecoverStuck returns abandoned processing jobs to pending without touching
// their attempt counter.
func (q *JobQueue) RecoverStuck(ctx context.Context) (int, error) {
	cutoff := toMillis(q.now().Add(-q.staleAfter))
	res, err := q.db.ExecContext(ctx, `
		UPDATE job SET status = ?, started_at = NULL
		WHERE status = ? AND started_at < ?`,
		string(domain.JobStatusPending), string(domain.JobStatusProcessing), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("recover stuck jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("recover stuck jobs: %w", err)
	}
	if n > 0 {
		q.log.Info().Int64("count", n).Msg("recovered stuck jobs")
	}
	return int(n), nil
}

func (q *JobQueue) CleanupCompleted(ctx context.Context) (int, error) {
	cutoff := toMillis(q.now().Add(-q.completedRetention))
	res, err := q.db.ExecContext(ctx, `
		DELETE FROM job WHERE status = ? AND completed_at < ?`,
		string(domain.JobStatusCompleted), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup completed jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup completed jobs: %w", err)
	}
	if n > 0 {
		q.log.Info().Int64("count", n).Msg("cleaned up old completed jobs")
	}
	return int(n), nil
}

// CleanupFailed deletes the source blob of each long-failed job and then its
// row. A row whose blob could not be deleted stays for the next pass.
func (q *JobQueue) CleanupFailed(ctx context.Context) (int, error) {
	cutoff := toMillis(q.now().Add(-q.failedRetention))
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM job
		WHERE status = ? AND completed_at < ?
		ORDER BY completed_at`,
		string(domain.JobStatusFailed), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("list failed jobs: %w", err)
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return 0, fmt.Errorf("list failed jobs: %w", err)
	}

	cleaned := 0
	for _, job := range jobs {
		if err := q.blobs.Delete(ctx, job.SourcePath); err != nil {
			q.log.Error().Err(err).Str("job_id", job.ID).Str("key", job.SourcePath).Msg("failed to delete source blob")
			continue
		}
		if _, err := q.db.ExecContext(ctx, `DELETE FROM job WHERE id = ?`, job.ID); err != nil {
			q.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to delete job row")
			continue
		}
		q.log.Info().Str("job_id", job.ID).Str("key", job.SourcePath).Msg("deleted failed job and source blob")
		cleaned++
	}
	return cleaned, nil
}

// PendingCount counts pending jobs of the given type, or of every type when jobType is empty.
func (q *JobQueue) PendingCount(ctx context.Context, jobType domain.JobType) (int, error) {
	query := `SELECT COUNT(*) FROM job WHERE status = ?`
	args := []any{string(domain.JobStatusPending)}
	if jobType != "" {
		query += ` AND type = ?`
		args = append(args, string(jobType))
	}
	var count int
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending jobs: %w", err)
	}
	return count, nil
}

func (q *JobQueue) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job WHERE id = ?`, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

func (q *JobQueue) LatestForMedia(ctx context.Context, mediaID string) (*domain.Job, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM job
		WHERE media_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`, mediaID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("latest job for media %s: %w", mediaID, err)
	}
	return job, nil
}

// List returns jobs newest first, optionally filtered by status.
func (q *JobQueue) List(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var b strings.Builder
	b.WriteString(`SELECT ` + jobColumns + ` FROM job`)
	args := []any{}
	if status != "" {
		b.WriteString(` WHERE status = ?`)
		args = append(args, string(status))
	}
	b.WriteString(` ORDER BY created_at DESC, rowid DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := q.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (q *JobQueue) Stats(ctx context.Context) (domain.JobStats, error) {
	var stats domain.JobStats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM job`).Scan(&stats.Pending, &stats.Processing, &stats.Completed, &stats.Failed)
	if err != nil {
		return stats, fmt.Errorf("job stats: %w", err)
	}
	return stats, nil
}

// Reset is the administrative retry: back to pending with a fresh budget.
func (q *JobQueue) Reset(ctx context.Context, jobID string) (*domain.Job, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE job
		SET status = ?, attempts = 0, error = NULL, started_at = NULL, completed_at = NULL
		WHERE id = ?
		RETURNING `+jobColumns,
		string(domain.JobStatusPending), jobID,
	)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reset job %s: %w", jobID, err)
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job         domain.Job
		jobType     string
		status      string
		errMsg      sql.NullString
		createdAt   int64
		startedAt   sql.NullInt64
		completedAt sql.NullInt64
	)
	err := row.Scan(&job.ID, &job.MediaID, &jobType, &status, &job.SourcePath, &job.TargetPath,
		&errMsg, &job.Attempts, &job.MaxAttempts, &createdAt, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	job.Type = domain.JobType(jobType)
	job.Status = domain.JobStatus(status)
	job.Error = errMsg.String
	job.CreatedAt = fromMillis(createdAt)
	job.StartedAt = timePtr(startedAt)
	job.CompletedAt = timePtr(completedAt)
	return &job, nil
}

func scanJobs(rows *sql.Rows) ([]*domain.Job, error) {
	defer func() { _ = rows.Close() }()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func requireRow(res sql.Result, jobID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

var _ port.JobQueue = (*JobQueue)(nil)
