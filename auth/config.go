package auth

import (
	"fmt"
	"strings"

	"github.com/kbukum/trustauth/auth/password"
	"github.com/kbukum/trustauth/auth/token"
	"github.com/kbukum/trustauth/provider/social"
	"github.com/kbukum/trustauth/resilience"
)

// Config holds all authentication configuration. It is embedded in the
// service configuration with squash, so its sections sit at the top level
// (jwt, password, social).
type Config struct {
	// JWT configures token issuance and verification.
	JWT token.Config `mapstructure:"jwt"`

	// Password configures local password hashing.
	Password password.Config `mapstructure:"password"`

	// Social enables social login providers.
	Social SocialConfig `mapstructure:"social"`
}

// SocialConfig lists the enabled social providers by preset name.
//
//	social:
//	  providers: [facebook, google]
//	  profile_urls:
//	    facebook: "https://graph.facebook.com/v19.0/me"
type SocialConfig struct {
	Providers []string `mapstructure:"providers"`
	// ProfileURLs overrides preset profile endpoints per provider.
	ProfileURLs map[string]string `mapstructure:"profile_urls"`
	// Retry and Breaker guard profile requests to every provider.
	Retry   resilience.RetryConfig   `mapstructure:"retry"`
	Breaker resilience.BreakerConfig `mapstructure:"breaker"`
}

// Configs resolves the enabled providers to their configurations.
func (c SocialConfig) Configs() ([]social.Config, error) {
	out := make([]social.Config, 0, len(c.Providers))
	for _, name := range c.Providers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		cfg, ok := social.Preset(name)
		if !ok {
			return nil, fmt.Errorf("unknown social provider %q", name)
		}
		if u := c.ProfileURLs[name]; u != "" {
			cfg.ProfileURL = u
		}
		out = append(out, cfg)
	}
	return out, nil
}

// ApplyDefaults sets defaults on every sub-configuration.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks every sub-configuration.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return err
	}
	if err := c.Password.Validate(); err != nil {
		return err
	}
	if _, err := c.Social.Configs(); err != nil {
		return fmt.Errorf("social: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup summary, e.g.
// "JWT(HS512) TTL=1h0m0s password=bcrypt social=facebook,google".
func (c *Config) Describe() string {
	line := fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, c.JWT.TTL(), c.Password.Algorithm)
	if len(c.Social.Providers) > 0 {
		line += " social=" + strings.Join(c.Social.Providers, ",")
	}
	return line
}
