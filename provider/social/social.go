// Package social logs users in with an access token issued by an external
// identity provider such as Facebook, Google or GitHub.
//
// The client obtains the access token itself; Verify only reads the
// provider profile with it. The first login of an external account creates
// a local principal and links the two.
package social

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/trustauth/clock"
	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider"
	"github.com/kbukum/trustauth/resilience"
)

// Provider verifies social access tokens.
type Provider struct {
	cfg        Config
	links      LinkStore
	users      principal.Store
	httpClient *http.Client
	clock      clock.Clock
	retry      resilience.RetryConfig
	breakerCfg resilience.BreakerConfig
	breaker    *resilience.Breaker
}

var _ provider.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the base client profile requests go through.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithClock sets the clock stamping new principals and links.
func WithClock(c clock.Clock) Option {
	return func(p *Provider) { p.clock = c }
}

// WithRetry bounds retries of failed profile requests.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(p *Provider) { p.retry = cfg }
}

// WithBreaker configures the circuit breaker around profile requests.
func WithBreaker(cfg resilience.BreakerConfig) Option {
	return func(p *Provider) { p.breakerCfg = cfg }
}

// New returns a provider for cfg. Unset options fall back to a 10s HTTP
// client, the system clock and default retry and breaker settings.
func New(cfg Config, links LinkStore, users principal.Store, opts ...Option) *Provider {
	cfg.ApplyDefaults()
	p := &Provider{
		cfg:        cfg,
		links:      links,
		users:      users,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		clock:      clock.System(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.breaker = resilience.NewBreaker(p.breakerCfg, p.clock)
	return p
}

// Name returns the configured provider name.
func (p *Provider) Name() string { return p.cfg.Name }

// Verify resolves the access token to a profile and returns the linked
// principal, creating both principal and link on first login.
func (p *Provider) Verify(ctx context.Context, cred provider.Credential) (*principal.Principal, error) {
	if cred.AccessToken == "" {
		return nil, errors.InvalidCredentials()
	}
	profile, err := p.profile(ctx, cred.AccessToken)
	if err != nil {
		return nil, err
	}

	link, err := p.links.Find(ctx, p.cfg.Name, profile.ID)
	switch {
	case err == nil:
		return p.linked(ctx, link, profile)
	case !stderrors.Is(err, ErrLinkNotFound):
		return nil, storeError(err)
	}

	now := p.clock.Now()
	link, created, err := p.links.SaveIfNotExists(ctx, Link{
		Provider:    p.cfg.Name,
		ExternalID:  profile.ID,
		PrincipalID: principal.NewID(),
		CreatedAt:   now,
	})
	if err != nil {
		return nil, storeError(err)
	}
	if !created {
		// a concurrent first login won
		return p.linked(ctx, link, profile)
	}
	return p.create(ctx, link, profile)
}

// profile fetches through the breaker, retrying transient upstream failures.
func (p *Provider) profile(ctx context.Context, accessToken string) (*Profile, error) {
	profile, err := resilience.Retry(ctx, p.retry, func(ctx context.Context) (*Profile, error) {
		var prof *Profile
		err := p.breaker.Execute(func() error {
			var err error
			prof, err = p.fetchProfile(ctx, accessToken)
			return err
		})
		return prof, err
	})
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		return nil, errors.ServiceUnavailable(p.cfg.Name + " login")
	}
	return profile, err
}

func (p *Provider) linked(ctx context.Context, link *Link, profile *Profile) (*principal.Principal, error) {
	user, err := p.users.FindByID(ctx, link.PrincipalID)
	if stderrors.Is(err, principal.ErrNotFound) {
		// link saved but principal write lost; recreate it
		return p.create(ctx, link, profile)
	}
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// create saves the principal a new link points to. The preferred username
// is <provider>_<external id>; when a local account already holds it the
// name falls back to suffixes of the principal id, which cannot be claimed
// ahead of time.
func (p *Provider) create(ctx context.Context, link *Link, profile *Profile) (*principal.Principal, error) {
	var err error
	for _, username := range usernames(p.cfg.Name, profile.ID, link.PrincipalID) {
		user := &principal.Principal{
			ID:          link.PrincipalID,
			Username:    username,
			Email:       profile.Email,
			DisplayName: profile.Name,
			CreatedAt:   p.clock.Now(),
		}
		err = p.users.Save(ctx, user)
		if err == nil {
			return user, nil
		}
		if !stderrors.Is(err, principal.ErrUsernameTaken) {
			return nil, storeError(err)
		}
	}
	return nil, errors.Internal(err)
}

func usernames(providerName, externalID, principalID string) []string {
	base := providerName + "_" + externalID
	id := strings.ReplaceAll(principalID, "-", "")
	out := []string{base}
	if len(id) > 8 {
		out = append(out, base+"_"+id[:8])
	}
	return append(out, base+"_"+id)
}

func storeError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.Internal(err)
}
