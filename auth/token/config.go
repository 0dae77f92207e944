package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names an HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config is the process-wide token configuration. It is read once at
// startup and never changes afterwards.
type Config struct {
	// Secret is the shared HMAC key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Expiration is the token lifetime in seconds.
	Expiration int `yaml:"expiration" mapstructure:"expiration"`
	// Method is the signing algorithm (default HS512).
	Method SigningMethod `yaml:"method" mapstructure:"method"`
}

const defaultExpiration = 3600

// ApplyDefaults fills in the algorithm and expiration when unset.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS512
	}
	if c.Expiration == 0 {
		c.Expiration = defaultExpiration
	}
}

// Validate rejects an empty secret, a non-HMAC algorithm and a
// non-positive expiration.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Expiration <= 0 {
		return fmt.Errorf("jwt.expiration must be a positive number of seconds (got: %d)", c.Expiration)
	}
	if _, err := c.Method.jwtMethod(); err != nil {
		return err
	}
	return nil
}

// TTL is Expiration as a duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Expiration) * time.Second
}

func (m SigningMethod) jwtMethod() (gojwt.SigningMethod, error) {
	switch m {
	case HS256:
		return gojwt.SigningMethodHS256, nil
	case HS384:
		return gojwt.SigningMethodHS384, nil
	case HS512:
		return gojwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("jwt.method must be one of HS256, HS384, HS512 (got: %s)", m)
	}
}
