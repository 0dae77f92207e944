package social

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLinkNotFound is returned by LinkStore.Find when the external account
// has never logged in.
var ErrLinkNotFound = errors.New("social: link not found")

// Link ties an external account to a local principal.
type Link struct {
	Provider    string
	ExternalID  string
	PrincipalID string
	CreatedAt   time.Time
}

// LinkStore persists links. SaveIfNotExists never overwrites: it returns
// the stored link and false when one already exists for the same provider
// and external id.
type LinkStore interface {
	Find(ctx context.Context, provider, externalID string) (*Link, error)
	SaveIfNotExists(ctx context.Context, link Link) (*Link, bool, error)
}

// MemoryLinkStore keeps links in process memory.
type MemoryLinkStore struct {
	mu    sync.Mutex
	links map[linkKey]Link
}

type linkKey struct {
	provider   string
	externalID string
}

// NewMemoryLinkStore returns an empty in-process link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[linkKey]Link)}
}

// Find returns the link for an external account or ErrLinkNotFound.
func (s *MemoryLinkStore) Find(_ context.Context, provider, externalID string) (*Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkKey{provider, externalID}]
	if !ok {
		return nil, ErrLinkNotFound
	}
	return &l, nil
}

// SaveIfNotExists stores link unless one exists; the stored link is returned
// with created reporting which happened.
func (s *MemoryLinkStore) SaveIfNotExists(_ context.Context, link Link) (*Link, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := linkKey{link.Provider, link.ExternalID}
	if existing, ok := s.links[key]; ok {
		return &existing, false, nil
	}
	s.links[key] = link
	return &link, true, nil
}
