// Package local verifies username and password logins against the
// principal store.
package local

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/kbukum/trustauth/auth/password"
	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider"
)

// Name is the registry identifier of the local provider.
const Name = "local"

// Provider checks credentials against stored password hashes.
type Provider struct {
	users  principal.Finder
	hasher password.Hasher

	dummyOnce sync.Once
	dummy     string
}

// dummyPassword backs the hash compared on misses. 72 bytes satisfies any
// configured length bounds.
var dummyPassword = strings.Repeat("#", 72)

var _ provider.Provider = (*Provider)(nil)

// New returns a provider reading users and comparing with hasher.
func New(users principal.Finder, hasher password.Hasher) *Provider {
	return &Provider{users: users, hasher: hasher}
}

// Name returns "local".
func (p *Provider) Name() string { return Name }

// Verify returns the principal owning cred.Username when cred.Password
// matches. Unknown usernames and wrong passwords fail identically.
func (p *Provider) Verify(ctx context.Context, cred provider.Credential) (*principal.Principal, error) {
	if cred.Username == "" || cred.Password == "" {
		return nil, errors.InvalidCredentials()
	}
	user, err := p.users.FindByUsername(ctx, cred.Username)
	if err != nil {
		if stderrors.Is(err, principal.ErrNotFound) {
			p.burnHash(cred.Password)
			return nil, errors.InvalidCredentials()
		}
		return nil, errors.Internal(err)
	}
	if user.PasswordHash == "" {
		// social-only accounts have no local password
		p.burnHash(cred.Password)
		return nil, errors.InvalidCredentials()
	}
	if err := p.hasher.Verify(cred.Password, user.PasswordHash); err != nil {
		return nil, errors.InvalidCredentials()
	}
	return user, nil
}

// burnHash compares pw against a throwaway hash so a miss costs as much as
// a wrong password.
func (p *Provider) burnHash(pw string) {
	p.dummyOnce.Do(func() {
		p.dummy, _ = p.hasher.Hash(dummyPassword)
	})
	if p.dummy != "" {
		_ = p.hasher.Verify(pw, p.dummy)
	}
}
