package authz

import (
	"sync"
	"time"
)

// InMemoryStrikeStore is the StrikeStore used by tests and single-node
// deployments without Redis.
type InMemoryStrikeStore struct {
	mu      sync.Mutex
	counts  map[string]int
	expires map[string]time.Time
}

func NewInMemoryStrikeStore() *InMemoryStrikeStore {
	return &InMemoryStrikeStore{
		counts:  map[string]int{},
		expires: map[string]time.Time{},
	}
}

func (s *InMemoryStrikeStore) Count(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(key)
	return s.counts[key], nil
}

func (s *InMemoryStrikeStore) Incr(key string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(key)
	if s.counts[key] == 0 {
		s.expires[key] = time.Now().Add(ttl)
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *InMemoryStrikeStore) Reset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
	delete(s.expires, key)
	return nil
}

func (s *InMemoryStrikeStore) expireLocked(key string) {
	if exp, ok := s.expires[key]; ok && time.Now().After(exp) {
		delete(s.counts, key)
		delete(s.expires, key)
	}
}
