package store

import (
	"context"
	"sync"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

// MemoryBlobStore implements BlobStore in memory for tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

// NewMemoryBlobStore creates an empty in-memory receipt store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]memoryBlob)}
}

// Put stores a copy of the blob, last-write-wins.
func (s *MemoryBlobStore) Put(ctx context.Context, id string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[id] = memoryBlob{data: cp, contentType: contentType}
	return nil
}

// Get returns the stored blob for id.
func (s *MemoryBlobStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[id]
	if !ok {
		return nil, "", ErrNotFound
	}
	cp := make([]byte, len(blob.data))
	copy(cp, blob.data)
	return cp, blob.contentType, nil
}
