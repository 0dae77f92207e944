package token

import (
	"errors"
)

var (
	// ErrMalformed means the string is not a well-formed signed claim set.
	ErrMalformed = errors.New("token: malformed")
	// ErrSignatureInvalid means verification failed: wrong secret, a
	// tampered payload or an unexpected algorithm.
	ErrSignatureInvalid = errors.New("token: signature invalid")
	// ErrExpired means the signature verified but the expiration has passed.
	ErrExpired = errors.New("token: expired")
	// ErrSubjectMismatch means the token belongs to another principal.
	ErrSubjectMismatch = errors.New("token: subject mismatch")
	// ErrCredentialsChanged means the principal changed credentials after
	// the token was issued.
	ErrCredentialsChanged = errors.New("token: issued before last credential change")
	// ErrReservedClaim means extra claims tried to set sub, iat or exp.
	ErrReservedClaim = errors.New("token: reserved claim in extras")
)

// Kind names the failure for logs and metrics. It never goes to clients.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrSubjectMismatch):
		return "subject_mismatch"
	case errors.Is(err, ErrCredentialsChanged):
		return "credentials_changed"
	default:
		return "unknown"
	}
}
