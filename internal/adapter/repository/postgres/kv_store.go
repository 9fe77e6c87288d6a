package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore
type kvStore struct {
	db *DB
}

// NewKeyValueStore creates a new key-value store backed by the kv_store table
func NewKeyValueStore(db *DB) domain.KeyValueStore {
	return &kvStore{db: db}
}

// Get retrieves the value stored under key
func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no value found for key %s: %w", key, domain.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to get value for key %s: %w", key, err)
	}

	return value, nil
}

// Put stores value under key, replacing any previous value
func (s *kvStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to upsert value for key %s: %w", key, err)
	}

	return nil
}

// Close closes the underlying database connection
func (s *kvStore) Close() error {
	return s.db.Close()
}
