// Package authctx carries the authenticated principal and the bearer token
// that proved it through a request context.
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/trustauth/principal"
)

type contextKey int

const (
	principalKey contextKey = iota
	tokenKey
)

// ErrNoPrincipal is returned when the request is unauthenticated.
var ErrNoPrincipal = errors.New("authctx: no principal in context")

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *principal.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Principal returns the principal stored in ctx, if any.
func Principal(ctx context.Context) (*principal.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*principal.Principal)
	return p, ok && p != nil
}

// PrincipalOrError is Principal with ErrNoPrincipal for the missing case.
func PrincipalOrError(ctx context.Context) (*principal.Principal, error) {
	p, ok := Principal(ctx)
	if !ok {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// MustPrincipal panics when ctx is unauthenticated. Use it only behind a
// route policy that guarantees a principal.
func MustPrincipal(ctx context.Context) *principal.Principal {
	p, ok := Principal(ctx)
	if !ok {
		panic(ErrNoPrincipal)
	}
	return p
}

// WithToken stores the raw bearer token that authenticated the request.
func WithToken(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, tokenKey, raw)
}

// Token returns the raw bearer token stored in ctx.
func Token(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenKey).(string)
	return raw, ok && raw != ""
}
