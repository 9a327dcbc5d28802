package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These can be overridden per deployment.
const (
	// DefaultSessionTTL is the lifetime of a session token without "remember me".
	DefaultSessionTTL = 24 * time.Hour

	// DefaultRememberMeTTL is the lifetime of a session token with "remember me".
	DefaultRememberMeTTL = 30 * 24 * time.Hour

	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenKind distinguishes the three token shapes issued by the Codec.
type TokenKind string

const (
	KindSession TokenKind = "session"
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Valid reports whether k is one of the known kinds.
func (k TokenKind) Valid() bool {
	switch k {
	case KindSession, KindAccess, KindRefresh:
		return true
	}
	return false
}

// RoleList is the "auth" claim. It is written as a comma-joined string
// ("ROLE_USER,ROLE_ADMIN") and accepted as either that string or a JSON list.
type RoleList []string

func (r RoleList) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(r, ","))
}

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*r = splitRoles(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*r = RoleList(list)
	return nil
}

func splitRoles(joined string) RoleList {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	var out RoleList
	for _, role := range strings.Split(joined, ",") {
		if role = strings.TrimSpace(role); role != "" {
			out = append(out, role)
		}
	}
	return out
}

// Claims are the token claims shared by session, access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Kind of token, one of session, access or refresh.
	Kind TokenKind `json:"typ"`

	// Authorities granted to the subject. Always empty on refresh tokens.
	Auth RoleList `json:"auth,omitempty"`

	// Numeric user identifier, when known at issuance.
	UserID *int64 `json:"uid,omitempty"`
}

// Subject describes who a token is issued to.
type Subject struct {
	Login  string
	UserID *int64
	Roles  []string
}

// NewClaims builds minimally-correct claims for the given kind.
func NewClaims(kind TokenKind, sub Subject, ttl time.Duration, issuer string, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind:   kind,
		UserID: sub.UserID,
	}
	if kind != KindRefresh && len(sub.Roles) > 0 {
		c.Auth = slices.Clone(RoleList(sub.Roles))
	}
	return c
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasRole reports whether the claims grant the given authority.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Auth, role)
}
