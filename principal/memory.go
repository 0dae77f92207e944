package principal

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps principals in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*Principal
	byUsername map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*Principal),
		byUsername: make(map[string]string),
	}
}

// FindByUsername returns a copy of the principal owning username.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

// FindByID returns a copy of the principal with the given id.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// Save stores a copy of p. Usernames stay unique: saving a different ID
// under a taken username fails.
func (s *MemoryStore) Save(_ context.Context, p *Principal) error {
	if p.ID == "" {
		return fmt.Errorf("principal: save without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.byUsername[p.Username]; ok && owner != p.ID {
		return fmt.Errorf("%w: %q", ErrUsernameTaken, p.Username)
	}
	if prev, ok := s.byID[p.ID]; ok && prev.Username != p.Username {
		delete(s.byUsername, prev.Username)
	}
	s.byID[p.ID] = p.Clone()
	s.byUsername[p.Username] = p.ID
	return nil
}
