// Package principal defines the authenticated subject and the store
// interface the authentication core reads it through.
package principal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by stores when no principal matches.
	ErrNotFound = errors.New("principal: not found")
	// ErrUsernameTaken is returned by Save when another principal owns the
	// username.
	ErrUsernameTaken = errors.New("principal: username taken")
)

// Principal is a local user record. The token core reads only ID, Username
// and LastCredentialChange.
type Principal struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	// LastCredentialChange revokes every token issued before it. Nil means
	// credentials never changed.
	LastCredentialChange *time.Time `json:"last_credential_change,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Clone returns a deep copy.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	out := *p
	if p.LastCredentialChange != nil {
		t := *p.LastCredentialChange
		out.LastCredentialChange = &t
	}
	return &out
}

// Finder looks principals up by username.
type Finder interface {
	FindByUsername(ctx context.Context, username string) (*Principal, error)
}

// Store is the user store collaborator.
type Store interface {
	Finder
	FindByID(ctx context.Context, id string) (*Principal, error)
	// Save inserts or updates p, keyed by ID.
	Save(ctx context.Context, p *Principal) error
}

// NewID returns a fresh principal identifier.
func NewID() string {
	return uuid.NewString()
}
