package auth

import (
	"sync"
	"time"
)

// InMemoryRefreshStore is the RefreshTokenStore used by tests and
// single-node deployments without Redis.
type InMemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	ttl    time.Duration
}

type refreshEntry struct {
	username string
	expires  time.Time
}

func NewInMemoryRefreshStore(ttl time.Duration) *InMemoryRefreshStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InMemoryRefreshStore{
		tokens: map[string]refreshEntry{},
		ttl:    ttl,
	}
}

func (s *InMemoryRefreshStore) Save(token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = refreshEntry{username: username, expires: time.Now().Add(s.ttl)}
	return nil
}

func (s *InMemoryRefreshStore) Lookup(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok || time.Now().After(e.expires) {
		delete(s.tokens, token)
		return "", ErrRefreshTokenNotFound
	}
	return e.username, nil
}

func (s *InMemoryRefreshStore) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
