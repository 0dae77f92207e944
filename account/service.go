// Package account implements the login flows: local registration and
// login, social login, token refresh and password change.
package account

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/trustauth/auth/password"
	"github.com/kbukum/trustauth/auth/token"
	"github.com/kbukum/trustauth/clock"
	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider"
	"github.com/kbukum/trustauth/provider/local"
	"github.com/kbukum/trustauth/validation"
)

// ClaimProvider is the extra claim naming the provider a token was issued
// through.
const ClaimProvider = "provider"

// Service orchestrates the login flows.
type Service struct {
	users     principal.Store
	providers *provider.Registry
	tokens    *token.Service
	hasher    password.Hasher
	clock     clock.Clock
	log       *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock stamping new accounts and credential changes.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService wires the account flows over the given stores and token service.
func NewService(users principal.Store, providers *provider.Registry, tokens *token.Service, hasher password.Hasher, opts ...Option) *Service {
	s := &Service{
		users:     users,
		providers: providers,
		tokens:    tokens,
		hasher:    hasher,
		clock:     clock.System(),
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("account")
	return s
}

// Register creates a local account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*principal.Principal, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	_, err := s.users.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, errors.AlreadyExists("user").WithDetail("username", req.Username)
	case !stderrors.Is(err, principal.ErrNotFound):
		return nil, storeError(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, passwordError(err)
	}
	p := &principal.Principal{
		ID:           principal.NewID(),
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Save(ctx, p); err != nil {
		return nil, storeError(err)
	}
	s.log.WithContext(ctx).Info("user registered", logger.Fields(logger.FieldPrincipal, p.Username))
	return p, nil
}

// Login verifies a local username and password and issues a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Token, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return s.login(ctx, local.Name, provider.Credential{Username: req.Username, Password: req.Password})
}

// SocialLogin verifies an access token with the named provider and issues
// a token. Unknown providers fail with PROVIDER_NOT_SUPPORTED.
func (s *Service) SocialLogin(ctx context.Context, req SocialLoginRequest) (*Token, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return s.login(ctx, req.Provider, provider.Credential{AccessToken: req.AccessToken})
}

func (s *Service) login(ctx context.Context, providerID string, cred provider.Credential) (*Token, error) {
	prov, err := s.providers.Resolve(providerID)
	if err != nil {
		return nil, err
	}
	p, err := prov.Verify(ctx, cred)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Internal(provider.ErrNoPrincipal)
	}
	tok, err := s.issue(p, providerID)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("login succeeded", logger.Fields(
		logger.FieldPrincipal, p.Username,
		logger.FieldProvider, providerID,
	))
	return tok, nil
}

// Refresh extends an authenticated session. The token must still be
// refreshable for p; expired tokens and tokens predating p's last
// credential change are refused.
func (s *Service) Refresh(ctx context.Context, raw string, p *principal.Principal) (*Token, error) {
	if !s.tokens.CanBeRefreshed(raw, p.LastCredentialChange) {
		return nil, errors.Unauthorized("Token cannot be refreshed. Please log in again.")
	}
	next, err := s.tokens.Refresh(raw)
	if err != nil {
		return nil, errors.Unauthorized("Token cannot be refreshed. Please log in again.").WithCause(err)
	}
	s.log.WithContext(ctx).Debug("token refreshed", logger.Fields(logger.FieldPrincipal, p.Username))
	return s.describe(next)
}

// ChangePassword replaces p's password and revokes every token issued
// before the change. The returned token is issued after the change and
// stays valid.
func (s *Service) ChangePassword(ctx context.Context, p *principal.Principal, req ChangePasswordRequest) (*Token, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	current, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		if stderrors.Is(err, principal.ErrNotFound) {
			return nil, errors.Unauthorized("")
		}
		return nil, storeError(err)
	}
	if current.PasswordHash == "" || s.hasher.Verify(req.OldPassword, current.PasswordHash) != nil {
		return nil, errors.InvalidCredentials()
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, passwordError(err)
	}
	changedAt := s.clock.Now().Truncate(token.Resolution)
	current.PasswordHash = hash
	current.LastCredentialChange = &changedAt
	if err := s.users.Save(ctx, current); err != nil {
		return nil, storeError(err)
	}
	s.log.WithContext(ctx).Info("password changed", logger.Fields(logger.FieldPrincipal, current.Username))
	return s.issue(current, local.Name)
}

func (s *Service) issue(p *principal.Principal, providerID string) (*Token, error) {
	raw, err := s.tokens.IssueWithClaims(p, map[string]any{ClaimProvider: providerID})
	if err != nil {
		return nil, errors.Internal(err)
	}
	return s.describe(raw)
}

func (s *Service) describe(raw string) (*Token, error) {
	exp, err := s.tokens.ExpirationOf(raw)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &Token{Token: raw, ExpiresAt: exp.UTC().Truncate(time.Millisecond)}, nil
}

func storeError(err error) error {
	switch {
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, principal.ErrUsernameTaken):
		return errors.AlreadyExists("user").WithCause(err)
	}
	return errors.Internal(err)
}

func passwordError(err error) error {
	switch {
	case stderrors.Is(err, password.ErrTooShort), stderrors.Is(err, password.ErrTooLong):
		return errors.InvalidInput("password", err.Error())
	}
	return errors.Internal(err)
}
