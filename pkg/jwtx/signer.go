package jwtx

import (
	"crypto/rand"
	"fmt"
	"time"
)

// MinSecretSize is the smallest HMAC secret accepted by NewCodec.
const MinSecretSize = 32

// Signer is our interface for anything that can mint tokens.
type Signer interface {
	Issue(kind TokenKind, sub Subject, ttl time.Duration) (string, Claims, error)
}

// GenerateSecret returns a fresh random HS512 secret.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("jwtx: generate secret: %w", err)
	}
	return secret, nil
}
