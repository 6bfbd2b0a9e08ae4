package port

import (
	"context"
	"io"
)

// BlobStore is an opaque key to bytes store. Get returns domain.ErrNotFound
// for unknown keys; Delete of an unknown key is not an error.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
