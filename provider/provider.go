package provider

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/principal"
)

// ErrNoPrincipal is the cause reported when a provider succeeds without
// returning a principal.
var ErrNoPrincipal = stderrors.New("provider: verification returned no principal")

// Credential is what a client presents to a provider. Local login uses
// Username and Password; social login uses AccessToken.
type Credential struct {
	Username    string
	Password    string
	AccessToken string
}

// Provider verifies an external credential and produces or locates the
// matching local principal.
type Provider interface {
	Name() string
	Verify(ctx context.Context, cred Credential) (*principal.Principal, error)
}

// Func adapts a function to Provider.
type Func struct {
	ID string
	Fn func(ctx context.Context, cred Credential) (*principal.Principal, error)
}

// Name returns f.ID.
func (f Func) Name() string { return f.ID }

// Verify calls f.Fn. A nil principal without an error becomes INTERNAL_ERROR.
func (f Func) Verify(ctx context.Context, cred Credential) (*principal.Principal, error) {
	return result(f.Fn(ctx, cred))
}

func result(p *principal.Principal, err error) (*principal.Principal, error) {
	if err == nil && p == nil {
		return nil, errors.Internal(ErrNoPrincipal)
	}
	return p, err
}
