// Package token issues, validates and refreshes signed bearer tokens.
//
// A token is an HMAC-signed JWT whose claim set carries the principal's
// username as "sub" and issue and expiry instants as "iat" and "exp". The
// Codec signs and verifies claim sets; the Service is the only place that
// decides whether a token is still good for a principal:
//
//	svc, err := token.NewService(cfg, clock.System())
//	tok, err := svc.Issue(p)
//	ok := svc.Validate(tok, p)
//
// There is no revocation list. A principal whose LastCredentialChange is
// later than a token's issue instant invalidates that token.
//
// Refresh does not check CanBeRefreshed. Callers must call CanBeRefreshed
// with the principal's LastCredentialChange first; otherwise a token issued
// before a password change could be exchanged for a fresh one.
package token
