package domain

import "time"

// SessionToken is the result of a successful authentication.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenPair is an access token plus the refresh token that renews it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// SigningSecret is a persisted HMAC secret, sealed with the master key.
type SigningSecret struct {
	ID              string
	SecretEncrypted []byte
	CreatedAt       time.Time
}
