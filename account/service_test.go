package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/trustauth/account"
	"github.com/kbukum/trustauth/auth/password"
	"github.com/kbukum/trustauth/auth/token"
	"github.com/kbukum/trustauth/clock"
	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider"
	"github.com/kbukum/trustauth/provider/local"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clock   *clock.Fixed
	users   *principal.MemoryStore
	tokens  *token.Service
	service *account.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewFixed(t0)
	users := principal.NewMemoryStore()
	hasher := password.NewBcryptHasher(password.WithCost(4))
	tokens, err := token.NewService(token.Config{Secret: "mySecret", Expiration: 3600}, clk)
	if err != nil {
		t.Fatal(err)
	}

	reg := provider.NewRegistry()
	reg.Register(local.Name, local.New(users, hasher))
	reg.Register("facebook", provider.Func{ID: "facebook", Fn: func(ctx context.Context, c provider.Credential) (*principal.Principal, error) {
		if c.AccessToken != "fb-token" {
			return nil, errors.InvalidCredentials()
		}
		p := &principal.Principal{ID: "fb-1", Username: "facebook_1"}
		return p, users.Save(ctx, p)
	}})

	return &fixture{
		clock:   clk,
		users:   users,
		tokens:  tokens,
		service: account.NewService(users, reg, tokens, hasher, account.WithClock(clk)),
	}
}

func (fx *fixture) register(t *testing.T) *principal.Principal {
	t.Helper()
	p, err := fx.service.Register(context.Background(), account.RegisterRequest{
		Username: "testUser",
		Password: "correct-horse",
		Email:    "test@example.com",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return p
}

func TestRegister(t *testing.T) {
	fx := newFixture(t)
	p := fx.register(t)

	if p.ID == "" || p.PasswordHash == "" || p.PasswordHash == "correct-horse" {
		t.Errorf("principal = %+v", p)
	}
	if !p.CreatedAt.Equal(t0) {
		t.Errorf("CreatedAt = %v", p.CreatedAt)
	}

	_, err := fx.service.Register(context.Background(), account.RegisterRequest{Username: "testUser", Password: "another-one"})
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("duplicate err = %v", err)
	}
}

func TestRegister_Invalid(t *testing.T) {
	fx := newFixture(t)
	tests := []struct {
		name string
		req  account.RegisterRequest
	}{
		{name: "empty", req: account.RegisterRequest{}},
		{name: "short password", req: account.RegisterRequest{Username: "bob", Password: "short"}},
		{name: "bad username", req: account.RegisterRequest{Username: "-bob", Password: "long-enough"}},
		{name: "bad email", req: account.RegisterRequest{Username: "bob", Password: "long-enough", Email: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Register(context.Background(), tt.req)
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	fx := newFixture(t)
	p := fx.register(t)

	tok, err := fx.service.Login(context.Background(), account.LoginRequest{Username: "testUser", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !fx.tokens.Validate(tok.Token, p) {
		t.Error("issued token should validate")
	}
	if !tok.ExpiresAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v", tok.ExpiresAt)
	}
	claims, _ := fx.tokens.ClaimsOf(tok.Token)
	if claims.Extra[account.ClaimProvider] != "local" {
		t.Errorf("provider claim = %v", claims.Extra[account.ClaimProvider])
	}

	_, err = fx.service.Login(context.Background(), account.LoginRequest{Username: "testUser", Password: "wrong-password"})
	if !errors.HasCode(err, errors.ErrCodeInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
}

func TestSocialLogin(t *testing.T) {
	fx := newFixture(t)

	tok, err := fx.service.SocialLogin(context.Background(), account.SocialLoginRequest{Provider: "facebook", AccessToken: "fb-token"})
	if err != nil {
		t.Fatalf("SocialLogin: %v", err)
	}
	sub, _ := fx.tokens.SubjectOf(tok.Token)
	if sub != "facebook_1" {
		t.Errorf("subject = %q", sub)
	}

	_, err = fx.service.SocialLogin(context.Background(), account.SocialLoginRequest{Provider: "twitter", AccessToken: "x"})
	if !errors.HasCode(err, errors.ErrCodeProviderNotSupported) {
		t.Errorf("twitter err = %v", err)
	}

	_, err = fx.service.SocialLogin(context.Background(), account.SocialLoginRequest{Provider: "facebook", AccessToken: "stolen"})
	if !errors.HasCode(err, errors.ErrCodeInvalidCredentials) {
		t.Errorf("bad token err = %v", err)
	}
}

func TestRefresh(t *testing.T) {
	fx := newFixture(t)
	p := fx.register(t)
	tok, _ := fx.service.Login(context.Background(), account.LoginRequest{Username: "testUser", Password: "correct-horse"})

	fx.clock.Advance(10 * time.Minute)
	next, err := fx.service.Refresh(context.Background(), tok.Token, p)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	oldIat, _ := fx.tokens.IssuedAtOf(tok.Token)
	newIat, _ := fx.tokens.IssuedAtOf(next.Token)
	if !newIat.After(oldIat) {
		t.Errorf("refreshed iat %v not after %v", newIat, oldIat)
	}

	fx.clock.Advance(2 * time.Hour)
	if _, err := fx.service.Refresh(context.Background(), next.Token, p); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("expired refresh err = %v", err)
	}
}

func TestChangePassword_RevokesEarlierTokens(t *testing.T) {
	fx := newFixture(t)
	p := fx.register(t)
	ctx := context.Background()
	old, _ := fx.service.Login(ctx, account.LoginRequest{Username: "testUser", Password: "correct-horse"})

	fx.clock.Advance(time.Second)
	fresh, err := fx.service.ChangePassword(ctx, p, account.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "battery-staple",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	updated, _ := fx.users.FindByID(ctx, p.ID)
	if updated.LastCredentialChange == nil || !updated.LastCredentialChange.Equal(t0.Add(time.Second)) {
		t.Fatalf("LastCredentialChange = %v", updated.LastCredentialChange)
	}
	if fx.tokens.Validate(old.Token, updated) {
		t.Error("token issued before the change must be revoked")
	}
	if !fx.tokens.Validate(fresh.Token, updated) {
		t.Error("token issued with the change must validate")
	}
	if _, err := fx.service.Refresh(ctx, old.Token, updated); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("refresh of revoked token err = %v", err)
	}

	if _, err := fx.service.Login(ctx, account.LoginRequest{Username: "testUser", Password: "battery-staple"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	fx := newFixture(t)
	p := fx.register(t)
	_, err := fx.service.ChangePassword(context.Background(), p, account.ChangePasswordRequest{
		OldPassword: "not-it-at-all",
		NewPassword: "battery-staple",
	})
	if !errors.HasCode(err, errors.ErrCodeInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
}
