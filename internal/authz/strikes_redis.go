package authz

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStrikeStore keeps strike counters in Redis so lockouts hold across
// instances and restarts.
type RedisStrikeStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisStrikeStore(rdb *redis.Client, ctx context.Context) *RedisStrikeStore {
	return &RedisStrikeStore{rdb: rdb, ctx: ctx}
}

func (s *RedisStrikeStore) Count(key string) (int, error) {
	n, err := s.rdb.Get(s.ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *RedisStrikeStore) Incr(key string, ttl time.Duration) (int, error) {
	n, err := s.rdb.Incr(s.ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		_ = s.rdb.Expire(s.ctx, key, ttl).Err()
	}
	return int(n), nil
}

func (s *RedisStrikeStore) Reset(key string) error {
	return s.rdb.Del(s.ctx, key).Err()
}
