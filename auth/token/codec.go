package token

import (
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/trustauth/clock"
)

// Codec signs claim sets and verifies them back. It holds no mutable state.
type Codec struct {
	method gojwt.SigningMethod
	key    []byte
	clock  clock.Clock
	parser *gojwt.Parser
}

// NewCodec creates a codec for an HMAC method. clk is read only to decide
// whether a decoded token has expired.
func NewCodec(method SigningMethod, secret string, clk clock.Clock) (*Codec, error) {
	m, err := method.jwtMethod()
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, errors.New("token: empty secret")
	}
	return &Codec{
		method: m,
		key:    []byte(secret),
		clock:  clk,
		// Expiry is checked against clk below, so the library's own
		// time-based validation stays off.
		parser: gojwt.NewParser(
			gojwt.WithValidMethods([]string{m.Alg()}),
			gojwt.WithJSONNumber(),
			gojwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Encode signs claims. Identical claims always produce the same string.
func (c *Codec) Encode(claims Claims) (string, error) {
	m := make(gojwt.MapClaims, len(claims.Extra)+3)
	for k, v := range claims.Extra {
		if k == ClaimSubject || k == ClaimIssuedAt || k == ClaimExpiresAt {
			return "", fmt.Errorf("%w: %s", ErrReservedClaim, k)
		}
		m[k] = v
	}
	m[ClaimSubject] = claims.Subject
	m[ClaimIssuedAt] = numericDate(claims.IssuedAt)
	m[ClaimExpiresAt] = numericDate(claims.ExpiresAt)

	signed, err := gojwt.NewWithClaims(c.method, m).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and then the expiration. On ErrExpired the
// decoded claims are returned as well; on every other error they are nil.
func (c *Codec) Decode(raw string) (*Claims, error) {
	tok, err := c.parser.Parse(raw, c.keyFunc)
	if err != nil {
		return nil, classify(err)
	}
	mc, ok := tok.Claims.(gojwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type %T", ErrMalformed, tok.Claims)
	}
	claims, err := fromMap(mc)
	if err != nil {
		return nil, err
	}
	if claims.ExpiredAt(c.clock.Now()) {
		return claims, ErrExpired
	}
	return claims, nil
}

func (c *Codec) keyFunc(*gojwt.Token) (any, error) {
	return c.key, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

func fromMap(mc gojwt.MapClaims) (*Claims, error) {
	sub, ok := mc[ClaimSubject].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	iatRaw, ok := mc[ClaimIssuedAt]
	if !ok {
		return nil, fmt.Errorf("%w: missing iat", ErrMalformed)
	}
	iat, err := parseNumericDate(iatRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: iat: %v", ErrMalformed, err)
	}
	expRaw, ok := mc[ClaimExpiresAt]
	if !ok {
		return nil, fmt.Errorf("%w: missing exp", ErrMalformed)
	}
	exp, err := parseNumericDate(expRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: exp: %v", ErrMalformed, err)
	}

	claims := &Claims{Subject: sub, IssuedAt: iat, ExpiresAt: exp}
	for k, v := range mc {
		if k == ClaimSubject || k == ClaimIssuedAt || k == ClaimExpiresAt {
			continue
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any, len(mc)-3)
		}
		claims.Extra[k] = v
	}
	return claims, nil
}
