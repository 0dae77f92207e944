package token

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/trustauth/clock"
	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/principal"
)

// Service issues and checks tokens for principals.
type Service struct {
	ttl     time.Duration
	codec   *Codec
	clock   clock.Clock
	log     *logger.Logger
	metrics *observability.AuthMetrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records issued and refreshed tokens.
func WithMetrics(m *observability.AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService validates cfg and builds a service reading time from clk.
func NewService(cfg Config, clk clock.Clock, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	codec, err := NewCodec(cfg.Method, cfg.Secret, clk)
	if err != nil {
		return nil, err
	}
	s := &Service{
		ttl:   cfg.TTL(),
		codec: codec,
		clock: clk,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL is the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a new token for p with no extra claims.
func (s *Service) Issue(p *principal.Principal) (string, error) {
	return s.IssueWithClaims(p, nil)
}

// IssueWithClaims signs a new token for p carrying extra claims.
func (s *Service) IssueWithClaims(p *principal.Principal, extra map[string]any) (string, error) {
	now := s.now()
	tok, err := s.codec.Encode(Claims{
		Subject:   p.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
		Extra:     extra,
	})
	if err != nil {
		return "", err
	}
	s.metrics.RecordTokenIssued(context.Background(), "issue")
	s.log.Debug("token issued", logger.Fields(logger.FieldPrincipal, p.Username, "expires_at", now.Add(s.ttl)))
	return tok, nil
}

// Verify explains why raw is not good for p, or returns nil. Expiry is
// checked against the clock here even though the codec checks it too.
func (s *Service) Verify(raw string, p *principal.Principal) error {
	if p == nil {
		return ErrSubjectMismatch
	}
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return err
	}
	if claims.Subject != p.Username {
		return ErrSubjectMismatch
	}
	if claims.ExpiredAt(s.clock.Now()) {
		return ErrExpired
	}
	if claims.IssuedBefore(p.LastCredentialChange) {
		return ErrCredentialsChanged
	}
	return nil
}

// Validate reports whether raw is a good token for p.
func (s *Service) Validate(raw string, p *principal.Principal) bool {
	return s.Verify(raw, p) == nil
}

// CanBeRefreshed reports whether raw was issued no earlier than
// lastCredentialChange and has not expired. Unreadable tokens are never
// refreshable.
func (s *Service) CanBeRefreshed(raw string, lastCredentialChange *time.Time) bool {
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return false
	}
	return !claims.IssuedBefore(lastCredentialChange) && !claims.ExpiredAt(s.clock.Now())
}

// Refresh re-signs raw with a new issue instant and expiration, keeping its
// subject and extra claims. It fails like Decode for unreadable or expired
// tokens.
//
// Refresh does not apply CanBeRefreshed. Call that first.
func (s *Service) Refresh(raw string) (string, error) {
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return "", err
	}
	next := claims.clone()
	next.IssuedAt = s.now()
	next.ExpiresAt = next.IssuedAt.Add(s.ttl)

	tok, err := s.codec.Encode(next)
	if err != nil {
		return "", err
	}
	s.metrics.RecordTokenIssued(context.Background(), "refresh")
	s.log.Debug("token refreshed", logger.Fields(logger.FieldPrincipal, claims.Subject))
	return tok, nil
}

// ClaimsOf decodes raw. On ErrExpired the claims are returned too.
func (s *Service) ClaimsOf(raw string) (*Claims, error) {
	return s.codec.Decode(raw)
}

// SubjectOf returns the username raw was issued to.
func (s *Service) SubjectOf(raw string) (string, error) {
	claims, err := s.codec.Decode(raw)
	if claims == nil {
		return "", err
	}
	return claims.Subject, err
}

// IssuedAtOf returns the instant raw was issued.
func (s *Service) IssuedAtOf(raw string) (time.Time, error) {
	claims, err := s.codec.Decode(raw)
	if claims == nil {
		return time.Time{}, err
	}
	return claims.IssuedAt, err
}

// ExpirationOf returns the instant raw expires.
func (s *Service) ExpirationOf(raw string) (time.Time, error) {
	claims, err := s.codec.Decode(raw)
	if claims == nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt, err
}

func (s *Service) now() time.Time {
	return s.clock.Now().Truncate(Resolution)
}
