package domain

import (
	"slices"
	"time"
)

// Authorities granted to accounts.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// DefaultLangKey is used when registration omits a language.
const DefaultLangKey = "en"

// User is the credential record. Login is stored lowercase.
type User struct {
	ID            int64
	Login         string
	Email         string
	PasswordHash  string // argon2id PHC string, or bcrypt for imported accounts
	FirstName     string
	LastName      string
	LangKey       string
	Activated     bool
	ActivationKey string // fingerprint of the emailed key, empty once activated
	Authorities   []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasAuthority reports whether the user holds role.
func (u User) HasAuthority(role string) bool {
	return slices.Contains(u.Authorities, role)
}

// Ref returns the embedded form of the user used on other records.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Login: u.Login}
}

// Profile holds marketplace details that live beside the credential record.
type Profile struct {
	ID          int64
	UserID      int64
	Phone       string // E.164 when present
	Location    string
	CompanyName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserRef is a user reduced to what other records expose about it.
type UserRef struct {
	ID    int64
	Login string
}

// Identity is the authenticated caller, derived from verified token claims
// and passed explicitly into service calls.
type Identity struct {
	UserID      int64
	Login       string
	Authorities []string
}

// IsAdmin reports whether the caller holds ROLE_ADMIN.
func (i Identity) IsAdmin() bool {
	return slices.Contains(i.Authorities, RoleAdmin)
}
