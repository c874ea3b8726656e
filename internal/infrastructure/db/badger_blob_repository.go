package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/damon-houk/kas-tracker/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const blobKeyPrefix = "blob:"

// BadgerBlobRepository implements the blob repository interface using BadgerDB
type BadgerBlobRepository struct {
	db *badger.DB
}

// OpenBadger opens (creating if needed) a BadgerDB at path with logging disabled
func OpenBadger(path string, syncWrites bool) (*badger.DB, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(syncWrites)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// NewBadgerBlobRepository creates a new BadgerDB blob repository
func NewBadgerBlobRepository(db *badger.DB) *BadgerBlobRepository {
	return &BadgerBlobRepository{db: db}
}

// Load returns the blob stored under key
func (r *BadgerBlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobKeyPrefix + key))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrBlobNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}

	return data, nil
}

// Save replaces the blob stored under key
func (r *BadgerBlobRepository) Save(ctx context.Context, key string, data []byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(blobKeyPrefix+key), data)
	})

	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}

	return nil
}

// Close closes the underlying database
func (r *BadgerBlobRepository) Close() error {
	return r.db.Close()
}
