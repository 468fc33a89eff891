package secrets

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"webhook-consumer/internal/common/errors"
)

const secretKeyPrefix = "webhook:secret:"

// RedisStore is a Store backed by Redis, for deployments where deliveries
// are served by more than one process or secrets must survive a restart
// without a resync.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed secret store on an existing connection
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, endpoint string) (string, error) {
	secret, err := s.rdb.Get(ctx, secretKeyPrefix+endpoint).Result()
	if err == redis.Nil {
		return "", ErrNotFound(endpoint)
	}
	if err != nil {
		return "", errors.InternalError("failed to read secret from redis", err).
			WithContext("endpoint", endpoint)
	}
	return secret, nil
}

func (s *RedisStore) Put(ctx context.Context, endpoint, secret string) error {
	if err := s.rdb.Set(ctx, secretKeyPrefix+endpoint, secret, 0).Err(); err != nil {
		return errors.InternalError("failed to write secret to redis", err).
			WithContext("endpoint", endpoint)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, endpoint string) error {
	if err := s.rdb.Del(ctx, secretKeyPrefix+endpoint).Err(); err != nil {
		return errors.InternalError("failed to delete secret from redis", err).
			WithContext("endpoint", endpoint)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) (map[string]string, error) {
	snapshot := make(map[string]string)

	iter := s.rdb.Scan(ctx, 0, secretKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		secret, err := s.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, errors.InternalError("failed to read secret from redis", err)
		}
		snapshot[key[len(secretKeyPrefix):]] = secret
	}
	if err := iter.Err(); err != nil {
		return nil, errors.InternalError("failed to scan secrets in redis", err)
	}

	return snapshot, nil
}

func (s *RedisStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
