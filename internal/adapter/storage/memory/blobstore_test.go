package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bnema/galerie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	require.NoError(t, s.Put(ctx, "a.jpg", strings.NewReader("hello"), "image/jpeg", 5))

	rc, err := s.Get(ctx, "a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ct, ok := s.ContentType("a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	require.NoError(t, s.Delete(ctx, "a.jpg"))
	_, err = s.Get(ctx, "a.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "missing"), "deleting an unknown key is not an error")
}

func TestBlobStore_FailDelete(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()
	require.NoError(t, s.Put(ctx, "k", strings.NewReader("x"), "", 1))

	boom := errors.New("boom")
	s.FailDelete("k", boom)

	assert.ErrorIs(t, s.Delete(ctx, "k"), boom)
	_, ok := s.Data("k")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Count())
}

func TestBlobStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewBlobStore()
	assert.ErrorIs(t, s.Put(ctx, "k", strings.NewReader("x"), "", 1), context.Canceled)
}
