package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec issues and validates HS512 tokens of every kind with one secret.
type Codec struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer sets the "iss" claim on issued tokens and requires it on validation.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLeeway allows small clock skew when validating exp/nbf.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec creates a Codec from a shared secret.
func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("jwtx: secret must be at least %d bytes, got %d", MinSecretSize, len(secret))
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issuer returns the configured issuer (may be empty).
func (c *Codec) Issuer() string { return c.issuer }

// Issue signs a token of the given kind for sub, valid for ttl.
func (c *Codec) Issue(kind TokenKind, sub Subject, ttl time.Duration) (string, Claims, error) {
	if !kind.Valid() {
		return "", Claims{}, fmt.Errorf("jwtx: unknown token kind %q", kind)
	}
	if sub.Login == "" {
		return "", Claims{}, errors.New("jwtx: subject is required")
	}
	if ttl <= 0 {
		return "", Claims{}, fmt.Errorf("jwtx: ttl must be positive, got %s", ttl)
	}

	claims := NewClaims(kind, sub, ttl, c.issuer, c.now().UTC())
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, claims, nil
}

// Validate parses and checks a token of any kind. Failures always match one
// of ErrEmptyClaims, ErrMalformed, ErrUnsupported, ErrBadSignature,
// ErrExpired or ErrInvalid.
func (c *Codec) Validate(tokenStr string) (Claims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return Claims{}, ErrEmptyClaims
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(c.now),
		jwt.WithLeeway(c.leeway),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	parser := jwt.NewParser(opts...)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		// Only our own algorithm; this also refuses "none"
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("%w: alg %v", ErrUnsupported, t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if claims.Subject == "" {
		return Claims{}, ErrEmptyClaims
	}
	if !claims.Kind.Valid() {
		return Claims{}, fmt.Errorf("%w: unknown kind %q", ErrInvalid, claims.Kind)
	}

	return claims, nil
}

// ValidateKind validates a token and requires it to be of the given kind.
func (c *Codec) ValidateKind(tokenStr string, kind TokenKind) (Claims, error) {
	claims, err := c.Validate(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if claims.Kind != kind {
		return Claims{}, fmt.Errorf("%w: %w: want %s, got %s", ErrInvalid, ErrWrongKind, kind, claims.Kind)
	}
	return claims, nil
}

// Verify implements Verifier for bearer authentication. Refresh tokens are
// never accepted as bearer credentials.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	claims, err := c.Validate(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if claims.Kind == KindRefresh {
		return Claims{}, fmt.Errorf("%w: %w: refresh token used as bearer", ErrInvalid, ErrWrongKind)
	}
	return claims, nil
}

// classify maps parser errors onto our failure modes.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, ErrUnsupported), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %w", ErrInvalid, ErrIssuer)
	default:
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
}
