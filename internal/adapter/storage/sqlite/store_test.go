package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedMedia(t *testing.T, store *Store, id string) *domain.Media {
	t.Helper()
	m := domain.NewMedia(id, domain.MediaKindVideo, "clip.mov", "video/quicktime", 1024)
	m.Processing = domain.ProcessingInProgress
	m.OriginalPath = domain.OriginalKey(id, "mov")
	require.NoError(t, store.CreateMedia(context.Background(), m))
	return m
}

func TestStore_CreateAndGetMedia(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := domain.NewMedia("m1", domain.MediaKindImage, "photo.png", "image/png", 2048)
	m.Width, m.Height = 4000, 3000
	m.OriginalPath = domain.OriginalKey("m1", "jpg")
	m.FullPath = domain.FullKey("m1")
	m.ThumbPath = domain.ThumbKey("m1")
	m.LQIP = "data:image/jpeg;base64,AAAA"
	m.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateMedia(ctx, m))

	got, err := store.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestStore_CreateMediaConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seedMedia(t, store, "m1")
	dup := domain.NewMedia("m1", domain.MediaKindImage, "other.png", "image/png", 1)
	dup.Width = 1280
	assert.ErrorIs(t, store.CreateMedia(ctx, dup), domain.ErrConflict)

	got, err := store.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.MediaKindVideo, got.Kind, "existing row must not be overwritten")
	assert.Equal(t, "clip.mov", got.FileName)
	assert.Zero(t, got.Width)
}

func TestStore_GetMediaNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetMedia(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MarkReady(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedMedia(t, store, "m1")

	require.NoError(t, store.MarkReady(ctx, "m1", domain.WebVideoKey("m1")))

	got, err := store.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessingReady, got.Processing)
	assert.Equal(t, "m1.mp4", got.WebPath)

	assert.ErrorIs(t, store.MarkReady(ctx, "missing", "x.mp4"), domain.ErrNotFound)
}

func TestStore_SetProcessing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedMedia(t, store, "m1")

	require.NoError(t, store.SetProcessing(ctx, "m1", domain.ProcessingFailed))
	got, err := store.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessingFailed, got.Processing)
}

func TestStore_DeleteMediaCascadesJobs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedMedia(t, store, "m1")

	q := NewJobQueue(store, nil)
	jobID, err := q.Enqueue(ctx, domain.NewJob{MediaID: "m1", Type: domain.JobTypeVideoTranscode})
	require.NoError(t, err)

	require.NoError(t, store.DeleteMedia(ctx, "m1"))
	_, err = q.Get(ctx, jobID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	seedMedia(t, store, "m1")
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetMedia(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "clip.mov", got.FileName)
}
