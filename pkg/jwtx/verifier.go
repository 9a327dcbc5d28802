package jwtx

import (
	"errors"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Token failure modes. Every error returned by Codec.Validate matches
// exactly one of these with errors.Is.
var (
	ErrBadSignature = errors.New("jwtx: invalid signature")
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrUnsupported  = errors.New("jwtx: unsupported token")
	ErrEmptyClaims  = errors.New("jwtx: empty claims")
	ErrInvalid      = errors.New("jwtx: invalid token")
)

var (
	ErrIssuer    = errors.New("jwtx: issuer mismatch")
	ErrWrongKind = errors.New("jwtx: unexpected token kind")
)

var tokenErrors = []error{
	ErrBadSignature,
	ErrMalformed,
	ErrExpired,
	ErrUnsupported,
	ErrEmptyClaims,
	ErrInvalid,
}

// IsTokenError reports whether err is one of the token failure modes.
func IsTokenError(err error) bool {
	for _, target := range tokenErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reason returns a short label for the failure mode of err, suitable for
// logs and metric labels. Unknown errors report "invalid".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrEmptyClaims):
		return "empty_claims"
	default:
		return "invalid"
	}
}
