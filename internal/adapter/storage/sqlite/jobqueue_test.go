package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/galerie/internal/adapter/storage/memory"
	"github.com/bnema/galerie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type queueFixture struct {
	store *Store
	queue *JobQueue
	blobs *memory.BlobStore
	clock *fakeClock
}

func newQueueFixture(t *testing.T) *queueFixture {
	t.Helper()
	store := newTestStore(t)
	blobs := memory.NewBlobStore()
	clock := newFakeClock()
	return &queueFixture{
		store: store,
		queue: NewJobQueue(store, blobs, WithClock(clock.Now)),
		blobs: blobs,
		clock: clock,
	}
}

func (f *queueFixture) enqueue(t *testing.T, mediaID string) string {
	t.Helper()
	seedMedia(t, f.store, mediaID)
	id, err := f.queue.Enqueue(context.Background(), domain.NewJob{
		MediaID:    mediaID,
		Type:       domain.JobTypeVideoTranscode,
		SourcePath: domain.OriginalKey(mediaID, "mov"),
		TargetPath: domain.WebVideoKey(mediaID),
	})
	require.NoError(t, err)
	return id
}

func (f *queueFixture) claim(t *testing.T) *domain.Job {
	t.Helper()
	job, err := f.queue.ClaimNext(context.Background(), domain.JobTypeVideoTranscode)
	require.NoError(t, err)
	return job
}

// exhaust claims and fails a job until its attempt budget is spent.
func (f *queueFixture) exhaust(t *testing.T, jobID string) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= domain.DefaultMaxAttempts; i++ {
		job := f.claim(t)
		require.NotNil(t, job)
		require.Equal(t, jobID, job.ID)
		status, err := f.queue.Fail(ctx, jobID, fmt.Sprintf("attempt %d failed", i))
		require.NoError(t, err)
		if i < domain.DefaultMaxAttempts {
			require.Equal(t, domain.JobStatusPending, status)
		} else {
			require.Equal(t, domain.JobStatusFailed, status)
		}
	}
}

func TestJobQueue_Enqueue(t *testing.T) {
	f := newQueueFixture(t)
	id := f.enqueue(t, "m1")

	job, err := f.queue.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "m1", job.MediaID)
	assert.Equal(t, domain.JobTypeVideoTranscode, job.Type)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, "m1-original.mov", job.SourcePath)
	assert.Equal(t, "m1.mp4", job.TargetPath)
	assert.Equal(t, 0, job.Attempts)
	assert.Equal(t, domain.DefaultMaxAttempts, job.MaxAttempts)
	assert.Equal(t, f.clock.Now(), job.CreatedAt)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.Empty(t, job.Error)
}

func TestJobQueue_EnqueueValidation(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()

	_, err := f.queue.Enqueue(ctx, domain.NewJob{Type: domain.JobTypeVideoTranscode})
	assert.Error(t, err)
	_, err = f.queue.Enqueue(ctx, domain.NewJob{MediaID: "m1"})
	assert.Error(t, err)
	_, err = f.queue.Enqueue(ctx, domain.NewJob{MediaID: "no-such-media", Type: domain.JobTypeVideoTranscode})
	assert.Error(t, err, "job must reference an existing media row")
}

func TestJobQueue_EnqueueCustomMaxAttempts(t *testing.T) {
	f := newQueueFixture(t)
	seedMedia(t, f.store, "m1")

	id, err := f.queue.Enqueue(context.Background(), domain.NewJob{
		MediaID: "m1", Type: domain.JobTypeVideoTranscode, MaxAttempts: 1,
	})
	require.NoError(t, err)

	job := f.claim(t)
	require.NotNil(t, job)
	status, err := f.queue.Fail(context.Background(), id, "boom")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, status)
}

func TestJobQueue_ClaimEmpty(t *testing.T) {
	f := newQueueFixture(t)
	assert.Nil(t, f.claim(t))
}

func TestJobQueue_ClaimFIFO(t *testing.T) {
	f := newQueueFixture(t)
	first := f.enqueue(t, "m1")
	second := f.enqueue(t, "m2")
	f.clock.Advance(time.Second)
	third := f.enqueue(t, "m3")

	for _, want := range []string{first, second, third} {
		job := f.claim(t)
		require.NotNil(t, job)
		assert.Equal(t, want, job.ID)
	}
	assert.Nil(t, f.claim(t))
}

func TestJobQueue_ClaimSetsProcessing(t *testing.T) {
	f := newQueueFixture(t)
	id := f.enqueue(t, "m1")
	f.clock.Advance(time.Minute)

	job := f.claim(t)
	require.NotNil(t, job)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.StartedAt)
	assert.Equal(t, f.clock.Now(), *job.StartedAt)

	assert.Nil(t, f.claim(t), "processing job must not be claimed again")
}

func TestJobQueue_ClaimFiltersByType(t *testing.T) {
	f := newQueueFixture(t)
	f.enqueue(t, "m1")

	job, err := f.queue.ClaimNext(context.Background(), domain.JobType("image_resize"))
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobQueue_ConcurrentClaimExactlyOneWins(t *testing.T) {
	f := newQueueFixture(t)
	id := f.enqueue(t, "m1")

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed []string
		errs    []error
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			job, err := f.queue.ClaimNext(context.Background(), domain.JobTypeVideoTranscode)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if job != nil {
				claimed = append(claimed, job.ID)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, []string{id}, claimed)

	job, err := f.queue.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, job.Attempts)
}

func TestJobQueue_Complete(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	id := f.enqueue(t, "m1")
	require.NotNil(t, f.claim(t))

	f.clock.Advance(30 * time.Second)
	require.NoError(t, f.queue.Complete(ctx, id))

	job, err := f.queue.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
	assert.Equal(t, f.clock.Now(), *job.CompletedAt)

	// a second completion is harmless
	require.NoError(t, f.queue.Complete(ctx, id))
	job, err = f.queue.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)

	assert.ErrorIs(t, f.queue.Complete(ctx, "missing"), domain.ErrNotFound)
}

func TestJobQueue_FailRetriesThenGivesUp(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	id := f.enqueue(t, "m1")

	require.NotNil(t, f.claim(t))
	status, err := f.queue.Fail(ctx, id, "ffmpeg exploded")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, status)

	job, err := f.queue.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, "ffmpeg exploded", job.Error)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)

	require.NotNil(t, f.claim(t))
	status, err = f.queue.Fail(ctx, id, "still broken")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, status)

	require.NotNil(t, f.claim(t))
	status, err = f.queue.Fail(ctx, id, "gave up")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, status)

	job, err = f.queue.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, "gave up", job.Error)
	require.NotNil(t, job.CompletedAt)

	assert.Nil(t, f.claim(t), "failed job is never claimed again")
}

func TestJobQueue_FailUnknownJob(t *testing.T) {
	f := newQueueFixture(t)
	_, err := f.queue.Fail(context.Background(), "missing", "boom")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobQueue_RecoverStuck(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	stuck := f.enqueue(t, "m1")
	fresh := f.enqueue(t, "m2")

	require.NotNil(t, f.claim(t))
	f.clock.Advance(4 * time.Minute)
	require.NotNil(t, f.claim(t))

	n, err := f.queue.RecoverStuck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nothing has been processing for five minutes yet")

	f.clock.Advance(time.Minute + time.Millisecond)
	n, err = f.queue.RecoverStuck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	job, err := f.queue.Get(ctx, stuck)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.Attempts, "recovery does not consume an attempt")
	assert.Nil(t, job.StartedAt)

	job, err = f.queue.Get(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
}

func TestJobQueue_RecoverStuckLeavesExhaustedJobUnclaimable(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	seedMedia(t, f.store, "m1")
	_, err := f.queue.Enqueue(ctx, domain.NewJob{MediaID: "m1", Type: domain.JobTypeVideoTranscode, MaxAttempts: 1})
	require.NoError(t, err)

	require.NotNil(t, f.claim(t))
	f.clock.Advance(10 * time.Minute)
	n, err := f.queue.RecoverStuck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Nil(t, f.claim(t), "a job with no attempts left is not eligible")
}

func TestJobQueue_CleanupCompleted(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	old := f.enqueue(t, "m1")
	require.NotNil(t, f.claim(t))
	require.NoError(t, f.queue.Complete(ctx, old))

	f.clock.Advance(6 * 24 * time.Hour)
	recent := f.enqueue(t, "m2")
	require.NotNil(t, f.claim(t))
	require.NoError(t, f.queue.Complete(ctx, recent))
	pending := f.enqueue(t, "m3")

	f.clock.Advance(24*time.Hour + time.Minute)
	n, err := f.queue.CleanupCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.queue.Get(ctx, old)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.queue.Get(ctx, recent)
	assert.NoError(t, err)
	_, err = f.queue.Get(ctx, pending)
	assert.NoError(t, err)
}

func TestJobQueue_CleanupFailed(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()

	id := f.enqueue(t, "m1")
	require.NoError(t, f.blobs.Put(ctx, "m1-original.mov", strings.NewReader("raw"), "video/quicktime", 3))
	f.exhaust(t, id)

	f.clock.Advance(29 * 24 * time.Hour)
	n, err := f.queue.CleanupFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, ok := f.blobs.Data("m1-original.mov")
	assert.True(t, ok)

	f.clock.Advance(2 * 24 * time.Hour)
	n, err = f.queue.CleanupFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok = f.blobs.Data("m1-original.mov")
	assert.False(t, ok, "source blob is removed")
	_, err = f.queue.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobQueue_CleanupFailedKeepsRowWhenBlobDeleteFails(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()

	stubborn := f.enqueue(t, "m1")
	f.exhaust(t, stubborn)
	other := f.enqueue(t, "m2")
	f.exhaust(t, other)

	f.blobs.FailDelete("m1-original.mov", errors.New("permission denied"))
	f.clock.Advance(31 * 24 * time.Hour)

	n, err := f.queue.CleanupFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	job, err := f.queue.Get(ctx, stubborn)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, job.Status)
	_, err = f.queue.Get(ctx, other)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobQueue_PendingCount(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	f.enqueue(t, "m1")
	f.enqueue(t, "m2")
	require.NotNil(t, f.claim(t))

	n, err := f.queue.PendingCount(ctx, domain.JobTypeVideoTranscode)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.queue.PendingCount(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.queue.PendingCount(ctx, domain.JobType("other"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestJobQueue_LatestForMedia(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	first := f.enqueue(t, "m1")
	require.NotNil(t, f.claim(t))
	require.NoError(t, f.queue.Complete(ctx, first))

	f.clock.Advance(time.Second)
	second, err := f.queue.Enqueue(ctx, domain.NewJob{MediaID: "m1", Type: domain.JobTypeVideoTranscode})
	require.NoError(t, err)

	job, err := f.queue.LatestForMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, second, job.ID)

	_, err = f.queue.LatestForMedia(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobQueue_ListAndStats(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()

	a := f.enqueue(t, "m1")
	f.clock.Advance(time.Second)
	b := f.enqueue(t, "m2")
	f.clock.Advance(time.Second)
	c := f.enqueue(t, "m3")

	claimed := f.claim(t)
	require.NotNil(t, claimed)
	require.Equal(t, a, claimed.ID)
	require.NoError(t, f.queue.Complete(ctx, a))
	require.NotNil(t, f.claim(t)) // b is processing

	all, err := f.queue.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{c, b, a}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending, err := f.queue.List(ctx, domain.JobStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, c, pending[0].ID)

	limited, err := f.queue.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	stats, err := f.queue.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStats{Pending: 1, Processing: 1, Completed: 1}, stats)
}

func TestJobQueue_StatsEmpty(t *testing.T) {
	f := newQueueFixture(t)
	stats, err := f.queue.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.JobStats{}, stats)
}

func TestJobQueue_Reset(t *testing.T) {
	f := newQueueFixture(t)
	ctx := context.Background()
	id := f.enqueue(t, "m1")
	f.exhaust(t, id)

	job, err := f.queue.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Attempts)
	assert.Empty(t, job.Error)
	assert.Nil(t, job.CompletedAt)

	claimed := f.claim(t)
	require.NotNil(t, claimed)
	assert.Equal(t, id, claimed.ID)

	_, err = f.queue.Reset(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobQueue_WithIDFunc(t *testing.T) {
	store := newTestStore(t)
	seedMedia(t, store, "m1")
	q := NewJobQueue(store, nil, WithIDFunc(func() string { return "job-fixed" }))

	id, err := q.Enqueue(context.Background(), domain.NewJob{MediaID: "m1", Type: domain.JobTypeVideoTranscode})
	require.NoError(t, err)
	assert.Equal(t, "job-fixed", id)
}
