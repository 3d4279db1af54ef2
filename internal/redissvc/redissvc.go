package redissvc

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisService bundles the shared client and context handed to the
// packages that keep counters and tokens in Redis.
type RedisService struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisService(rdb *redis.Client, ctx context.Context) *RedisService {
	return &RedisService{
		rdb: rdb,
		ctx: ctx,
	}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) Ctx() context.Context {
	return s.ctx
}

func (s *RedisService) Ping() error {
	return s.rdb.Ping(s.ctx).Err()
}
