// Package memory provides an in-process BlobStore used by tests and ad-hoc tooling.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/port"
)

type blob struct {
	data        []byte
	contentType string
}

// BlobStore keeps blobs in a map and is safe for concurrent use.
type BlobStore struct {
	mu        sync.RWMutex
	blobs     map[string]blob
	deleteErr map[string]error
}

func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs:     make(map[string]blob),
		deleteErr: make(map[string]error),
	}
}

var _ port.BlobStore = (*BlobStore)(nil)

func (s *BlobStore) Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("put: empty key")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read blob %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob{data: data, contentType: contentType}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.deleteErr[key]; ok {
		return err
	}
	delete(s.blobs, key)
	return nil
}

// FailDelete makes every later Delete of key return err (test helper).
func (s *BlobStore) FailDelete(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr[key] = err
}

// Data returns the raw bytes stored at key (test helper).
func (s *BlobStore) Data(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	return b.data, ok
}

// ContentType returns the content type recorded for key (test helper).
func (s *BlobStore) ContentType(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	return b.contentType, ok
}

func (s *BlobStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
