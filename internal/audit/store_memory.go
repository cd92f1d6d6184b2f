package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps decisions in process memory. Default for tests and
// single-instance deployments without a broker.
type InMemoryStore struct {
	mu        sync.RWMutex
	decisions []Decision
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, d Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, d)
	return nil
}

// List returns a copy of all recorded decisions.
func (s *InMemoryStore) List(_ context.Context) ([]Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Decision{}, s.decisions...), nil
}
