package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "auth:refresh:"

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore maps an opaque refresh token to the username it was
// issued to, until it expires or is revoked.
type RefreshTokenStore interface {
	Save(token, username string) error
	Lookup(token string) (string, error)
	Revoke(token string) error
}

// RefreshStore keeps refresh tokens in Redis; expiry is handled by key
// TTL, no cleanup loop required.
type RefreshStore struct {
	rdb *redis.Client
	ctx context.Context
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ctx context.Context, ttl time.Duration) *RefreshStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RefreshStore{rdb: rdb, ctx: ctx, ttl: ttl}
}

func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *RefreshStore) Save(token, username string) error {
	return s.rdb.Set(s.ctx, refreshKeyPrefix+token, username, s.ttl).Err()
}

func (s *RefreshStore) Lookup(token string) (string, error) {
	username, err := s.rdb.Get(s.ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	return username, err
}

func (s *RefreshStore) Revoke(token string) error {
	return s.rdb.Del(s.ctx, refreshKeyPrefix+token).Err()
}
