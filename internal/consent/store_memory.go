package consent

import (
	"context"
	"sync"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preference
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[string]Preference)}
}

func (s *InMemoryStore) Save(_ context.Context, pref Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[pref.UserID] = pref
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, userID string) (Preference, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pref, ok := s.prefs[userID]
	return pref, ok, nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, userID)
	return nil
}
