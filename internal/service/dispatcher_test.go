package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/galerie/internal/adapter/storage/memory"
	"github.com/bnema/galerie/internal/adapter/storage/sqlite"
	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pipelineFixture struct {
	store      *sqlite.Store
	queue      *sqlite.JobQueue
	blobs      *memory.BlobStore
	encoder    *mocks.VideoEncoderMock
	events     *EventBus
	tempDir    string
	transcoder *Transcoder
	dispatcher *Dispatcher
}

func newPipelineFixture(t *testing.T, queueOpts ...sqlite.JobQueueOption) *pipelineFixture {
	t.Helper()
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &pipelineFixture{
		store:   store,
		blobs:   memory.NewBlobStore(),
		encoder: mocks.NewVideoEncoderMock(t),
		events:  NewEventBus(),
		tempDir: t.TempDir(),
	}
	f.queue = sqlite.NewJobQueue(store, f.blobs, queueOpts...)
	f.transcoder = NewTranscoder(f.blobs, f.encoder, f.tempDir)
	handler := NewVideoJobHandler(f.transcoder, store, f.events)
	f.dispatcher = NewDispatcher(f.queue, domain.JobTypeVideoTranscode, handler, WithDrainDelay(10*time.Millisecond))
	return f
}

// addVideo stores a processing video with its original blob and a pending job.
func (f *pipelineFixture) addVideo(t *testing.T, id string) string {
	t.Helper()
	ctx := context.Background()
	m := domain.NewMedia(id, domain.MediaKindVideo, id+".mov", "video/quicktime", 3)
	m.Processing = domain.ProcessingInProgress
	m.OriginalPath = domain.OriginalKey(id, "mov")
	require.NoError(t, f.store.CreateMedia(ctx, m))
	require.NoError(t, f.blobs.Put(ctx, m.OriginalPath, strings.NewReader("raw"), "video/quicktime", 3))

	jobID, err := f.queue.Enqueue(ctx, domain.NewJob{
		MediaID:    id,
		Type:       domain.JobTypeVideoTranscode,
		SourcePath: m.OriginalPath,
		TargetPath: domain.WebVideoKey(id),
	})
	require.NoError(t, err)
	return jobID
}

func (f *pipelineFixture) encoderSucceeds() {
	f.encoder.EXPECT().Transcode(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _, out string) error {
			return os.WriteFile(out, []byte("mp4"), 0600)
		})
}

func (f *pipelineFixture) mediaState(t *testing.T, id string) *domain.Media {
	t.Helper()
	m, err := f.store.GetMedia(context.Background(), id)
	require.NoError(t, err)
	return m
}

func TestDispatcher_DrainOnceSuccess(t *testing.T) {
	f := newPipelineFixture(t)
	jobID := f.addVideo(t, "v1")
	f.encoderSucceeds()

	events := f.events.Subscribe("v1")
	defer f.events.Unsubscribe("v1", events)

	handled, err := f.dispatcher.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, handled)

	job, err := f.queue.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)

	m := f.mediaState(t, "v1")
	assert.Equal(t, domain.ProcessingReady, m.Processing)
	assert.Equal(t, "v1.mp4", m.WebPath)

	_, ok := f.blobs.Data("v1.mp4")
	assert.True(t, ok)

	select {
	case ev := <-events:
		assert.Equal(t, Event{Type: "status", Status: "ready"}, ev)
	default:
		t.Fatal("expected a ready event")
	}
}

func TestDispatcher_DrainOnceEmpty(t *testing.T) {
	f := newPipelineFixture(t)
	handled, err := f.dispatcher.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestDispatcher_RetriesThenFailsMedia(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()
	jobID := f.addVideo(t, "v1")
	f.encoder.EXPECT().Transcode(mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("ffmpeg failed: exit status 1")).
		Times(3)

	for attempt := 1; attempt <= 2; attempt++ {
		handled, err := f.dispatcher.DrainOnce(ctx)
		require.NoError(t, err)
		require.True(t, handled)

		job, err := f.queue.Get(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusPending, job.Status, "attempt %d", attempt)
		assert.Equal(t, domain.ProcessingInProgress, f.mediaState(t, "v1").Processing, "media stays in progress while retries remain")
	}

	handled, err := f.dispatcher.DrainOnce(ctx)
	require.NoError(t, err)
	require.True(t, handled)

	job, err := f.queue.Get(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Contains(t, job.Error, "exit status 1")
	assert.Equal(t, domain.ProcessingFailed, f.mediaState(t, "v1").Processing)

	handled, err = f.dispatcher.DrainOnce(ctx)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestDispatcher_SourceMissingCountsAsFailure(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()
	jobID := f.addVideo(t, "v1")
	require.NoError(t, f.blobs.Delete(ctx, "v1-original.mov"))

	_, err := f.dispatcher.DrainOnce(ctx)
	require.NoError(t, err)

	job, err := f.queue.Get(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Contains(t, job.Error, "source blob missing")
}

func TestDispatcher_RunDrainsBacklog(t *testing.T) {
	f := newPipelineFixture(t)
	ids := []string{f.addVideo(t, "v1"), f.addVideo(t, "v2"), f.addVideo(t, "v3")}
	f.encoderSucceeds()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		f.dispatcher.Run(ctx)
		close(done)
	}()

	f.dispatcher.Trigger()

	assert.Eventually(t, func() bool {
		stats, err := f.queue.Stats(context.Background())
		return err == nil && stats.Completed == len(ids)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_TriggerNeverBlocks(t *testing.T) {
	f := newPipelineFixture(t)
	for range 100 {
		f.dispatcher.Trigger()
	}
}

func TestDispatcher_ShutdownLeavesJobProcessing(t *testing.T) {
	f := newPipelineFixture(t)
	jobID := f.addVideo(t, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	f.encoder.EXPECT().Transcode(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _, _ string) error {
			cancel()
			return ctx.Err()
		}).
		Once()

	handled, err := f.dispatcher.DrainOnce(ctx)
	assert.True(t, handled)
	assert.ErrorIs(t, err, context.Canceled)

	job, err := f.queue.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Equal(t, 1, job.Attempts)
}

type stubHandler struct {
	processErr error
	succeeded  atomic.Int32
	failed     atomic.Int32
	succeedErr error
}

func (h *stubHandler) Process(context.Context, *domain.Job) error { return h.processErr }

func (h *stubHandler) Succeeded(context.Context, *domain.Job) error {
	h.succeeded.Add(1)
	return h.succeedErr
}

func (h *stubHandler) Failed(context.Context, *domain.Job, error) error {
	h.failed.Add(1)
	return nil
}

func TestDispatcher_HandlerCallbacks(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()
	f.addVideo(t, "v1")

	h := &stubHandler{succeedErr: errors.New("media row locked")}
	d := NewDispatcher(f.queue, domain.JobTypeVideoTranscode, h)

	handled, err := d.DrainOnce(ctx)
	require.NoError(t, err, "a failing success hook does not fail the drain")
	assert.True(t, handled)
	assert.Equal(t, int32(1), h.succeeded.Load())
	assert.Equal(t, int32(0), h.failed.Load())
}
