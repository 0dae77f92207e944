package token

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"
)

// Reserved claim names.
const (
	ClaimSubject   = "sub"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
)

// Claims is the decoded form of a token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// ExpiredAt reports whether the claims are expired at now. A token stops
// being good at the exact instant of its expiration.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IssuedBefore reports whether the token predates a credential change.
// Both sides are compared at wire resolution.
func (c *Claims) IssuedBefore(change *time.Time) bool {
	if change == nil {
		return false
	}
	return c.IssuedAt.Before(change.Truncate(Resolution))
}

func (c *Claims) clone() Claims {
	out := *c
	out.Extra = maps.Clone(c.Extra)
	return out
}

// Resolution is the precision of iat and exp on the wire.
const Resolution = time.Millisecond

// numericDate renders t as an RFC 7519 NumericDate with millisecond
// precision: whole seconds are written as integers, anything finer as a
// decimal fraction without trailing zeros.
func numericDate(t time.Time) json.Number {
	ms := t.UnixMilli()
	sign := ""
	if ms < 0 {
		sign, ms = "-", -ms
	}
	sec, frac := ms/1000, ms%1000
	if frac == 0 {
		return json.Number(sign + strconv.FormatInt(sec, 10))
	}
	f := strings.TrimRight(fmt.Sprintf("%03d", frac), "0")
	return json.Number(sign + strconv.FormatInt(sec, 10) + "." + f)
}

// parseNumericDate reads a NumericDate exactly, without going through
// float64, so millisecond instants survive a round trip.
func parseNumericDate(v any) (time.Time, error) {
	var s string
	switch n := v.(type) {
	case json.Number:
		s = n.String()
	case float64:
		s = strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		s = strconv.FormatInt(n, 10)
	default:
		return time.Time{}, fmt.Errorf("numeric date has type %T", v)
	}

	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("numeric date %q: %w", s, err)
		}
		return time.UnixMilli(int64(math.Round(f * 1000))).UTC(), nil
	}

	neg := strings.HasPrefix(s, "-")
	whole, frac, hasFrac := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("numeric date %q: %w", s, err)
	}
	ms := sec * 1000
	if hasFrac {
		if frac == "" || strings.Trim(frac, "0123456789") != "" {
			return time.Time{}, fmt.Errorf("numeric date %q: bad fraction", s)
		}
		frac = (frac + "000")[:3]
		f, _ := strconv.ParseInt(frac, 10, 64)
		ms += f
	}
	if neg {
		ms = -ms
	}
	return time.UnixMilli(ms).UTC(), nil
}
