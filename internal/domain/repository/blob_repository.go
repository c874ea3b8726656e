// Package repository internal/domain/repository/blob_repository.go
package repository

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Load when no blob is stored under the key
var ErrBlobNotFound = errors.New("blob not found")

// BlobRepository defines the interface for the persisted key-value blob
type BlobRepository interface {
	// Load returns the raw bytes stored under key
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the bytes stored under key
	Save(ctx context.Context, key string, data []byte) error

	// Close releases the underlying storage
	Close() error
}
