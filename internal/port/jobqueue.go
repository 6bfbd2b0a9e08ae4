package port

import (
	"context"

	"github.com/bnema/galerie/internal/domain"
)

// JobQueue is the durable work table driving asynchronous processing.
// ClaimNext returns (nil, nil) both when nothing is eligible and when a
// concurrent caller won the claim; callers simply invoke it again.
type JobQueue interface {
	Enqueue(ctx context.Context, job domain.NewJob) (string, error)
	ClaimNext(ctx context.Context, jobType domain.JobType) (*domain.Job, error)
	Complete(ctx context.Context, jobID string) error
	Fail(ctx context.Context, jobID string, errMsg string) (domain.JobStatus, error)
	RecoverStuck(ctx context.Context) (int, error)
	CleanupCompleted(ctx context.Context) (int, error)
	CleanupFailed(ctx context.Context) (int, error)
	PendingCount(ctx context.Context, jobType domain.JobType) (int, error)

	Get(ctx context.Context, jobID string) (*domain.Job, error)
	LatestForMedia(ctx context.Context, mediaID string) (*domain.Job, error)
	List(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error)
	Stats(ctx context.Context) (domain.JobStats, error)
	Reset(ctx context.Context, jobID string) (*domain.Job, error)
}
