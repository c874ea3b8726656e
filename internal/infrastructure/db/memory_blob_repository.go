package db

import (
	"context"
	"sync"

	"github.com/damon-houk/kas-tracker/internal/domain/repository"
)

// MemoryBlobRepository keeps blobs in process memory. Data is lost on exit.
type MemoryBlobRepository struct {
	mutex sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryBlobRepository creates an empty in-memory blob repository
func NewMemoryBlobRepository() *MemoryBlobRepository {
	return &MemoryBlobRepository{blobs: make(map[string][]byte)}
}

func (r *MemoryBlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	data, ok := r.blobs[key]
	if !ok {
		return nil, repository.ErrBlobNotFound
	}

	return append([]byte(nil), data...), nil
}

func (r *MemoryBlobRepository) Save(ctx context.Context, key string, data []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (r *MemoryBlobRepository) Close() error {
	return nil
}
