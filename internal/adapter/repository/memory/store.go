package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// Store is an in-process domain.KeyValueStore
// Values are copied on the way in and out
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get retrieves the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("memory store %q: %w", key, domain.ErrKeyNotFound)
	}
	return append([]byte(nil), value...), nil
}

// Put stores value under key
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
