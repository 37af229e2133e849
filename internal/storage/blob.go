package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// BlobStore is a key/value store of opaque serialized snapshots.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Timestamped is implemented by blob stores that know when a key was last
// written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// LastSaved reports when key was last written, if blobs can tell.
func LastSaved(ctx context.Context, blobs BlobStore, key string) (time.Time, bool) {
	ts, ok := blobs.(Timestamped)
	if !ok {
		return time.Time{}, false
	}
	at, err := ts.UpdatedAt(ctx, key)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// MemoryBlobStore keeps snapshots in process memory. It backs tests and the
// memory backend.
type MemoryBlobStore struct {
	mu     sync.Mutex
	values map[string][]byte
	// FailPut, when set, is returned by every Put.
	FailPut error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{values: make(map[string][]byte)}
}

func (m *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBlobStore) Close() error { return nil }
