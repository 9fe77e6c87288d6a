package redis

import (
	"context"
	"fmt"

	"github.com/mediocregopher/radix.v2/pool"
	"github.com/mediocregopher/radix.v2/redis"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

// DefaultPoolSize is used when the configured pool size is not positive
const DefaultPoolSize = 4

// Store implements domain.KeyValueStore on a Redis connection pool
type Store struct {
	Pool *pool.Pool
}

// Open dials a connection pool to the Redis server at addr
func Open(addr string, size int) (*Store, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p, err := pool.New("tcp", addr, size)
	if err != nil {
		return nil, fmt.Errorf("redis pool: %w", err)
	}
	return &Store{Pool: p}, nil
}

// Get retrieves the value stored under key.
// radix.v2 has no context support, so ctx is only checked before the call.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := s.Pool.Cmd("GET", key)
	if resp.Err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", key, resp.Err)
	}
	if resp.IsType(redis.Nil) {
		return nil, fmt.Errorf("redis %s: %w", key, domain.ErrKeyNotFound)
	}

	b, err := resp.Bytes()
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return b, nil
}

// Put stores value under key
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.Pool.Cmd("SET", key, value).Err; err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

// Close drains the pool
func (s *Store) Close() error {
	s.Pool.Empty()
	return nil
}
