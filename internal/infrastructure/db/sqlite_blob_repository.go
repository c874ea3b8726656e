package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/damon-houk/kas-tracker/internal/domain/repository"

	_ "modernc.org/sqlite"
)

// SQLiteBlobRepository implements the blob repository interface on a sqlite table
type SQLiteBlobRepository struct {
	db *sql.DB
}

// NewSQLiteBlobRepository opens the database at dbPath and applies migrations
func NewSQLiteBlobRepository(dbPath string) (*SQLiteBlobRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteBlobRepository{db: db}, nil
}

// Load returns the blob stored under key
func (r *SQLiteBlobRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := r.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrBlobNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}

	return data, nil
}

// Save replaces the blob stored under key
func (r *SQLiteBlobRepository) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		key, data)
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}

	return nil
}

// Close closes the database connection
func (r *SQLiteBlobRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
