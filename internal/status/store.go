// Package status holds the per-consumer enable/disable flag that gates
// webhook deliveries. The flag is toggled out-of-band through the management
// API and consulted on every delivery before any verification work is spent.
// A consumer with no recorded flag is active.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"webhook-consumer/internal/common/errors"
)

// Store tracks whether a consumer accepts deliveries. Implementations must
// be safe under concurrent access from deliveries and management calls.
type Store interface {
	IsActive(ctx context.Context, consumer string) (bool, error)
	SetActive(ctx context.Context, consumer string, active bool) error
}

// MemoryStore is an in-process Store backed by a mutex-guarded map
type MemoryStore struct {
	mu       sync.RWMutex
	disabled map[string]bool
}

// NewMemoryStore creates an in-memory consumer status store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		disabled: make(map[string]bool),
	}
}

func (s *MemoryStore) IsActive(ctx context.Context, consumer string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.disabled[consumer], nil
}

func (s *MemoryStore) SetActive(ctx context.Context, consumer string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if active {
		delete(s.disabled, consumer)
	} else {
		s.disabled[consumer] = true
	}
	return nil
}

const statusKeyPrefix = "webhook:consumer:disabled:"

// RedisStore is a Store backed by Redis so the gate is shared across
// processes. Only disabled consumers are recorded; absence means active.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed consumer status store
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) IsActive(ctx context.Context, consumer string) (bool, error) {
	exists, err := s.rdb.Exists(ctx, statusKeyPrefix+consumer).Result()
	if err != nil {
		return false, errors.InternalError("failed to read consumer status from redis", err).
			WithContext("consumer", consumer)
	}
	return exists == 0, nil
}

func (s *RedisStore) SetActive(ctx context.Context, consumer string, active bool) error {
	var err error
	if active {
		err = s.rdb.Del(ctx, statusKeyPrefix+consumer).Err()
	} else {
		err = s.rdb.Set(ctx, statusKeyPrefix+consumer, time.Now().Unix(), 0).Err()
	}
	if err != nil {
		return errors.InternalError("failed to write consumer status to redis", err).
			WithContext("consumer", consumer)
	}
	return nil
}
