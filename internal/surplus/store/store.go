package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so transactions cannot be nested by accident.
type Store interface {
	Users() Users
	Profiles() Profiles
	Notifications() Notifications
	Listings() Listings
	SigningSecrets() SigningSecrets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. An error from fn rolls back,
	// nil commits.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the credential store.
type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByLogin expects an already lowercased login.
	GetUserByLogin(ctx context.Context, login string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByActivationKey looks up by activation key fingerprint.
	GetUserByActivationKey(ctx context.Context, keyHash string) (domain.User, error)

	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts u and returns it with ID and timestamps set.
	// Duplicate login or email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// ActivateUser sets activated and clears the activation key.
	ActivateUser(ctx context.Context, id int64) error

	// DeleteNotActivatedBefore removes accounts never activated and created
	// before cutoff. Profiles and notifications cascade.
	DeleteNotActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Profiles interface {
	CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error)
	GetProfileByUserID(ctx context.Context, userID int64) (domain.Profile, error)
}

type Notifications interface {
	// Save inserts n, or updates its read flag when it already exists.
	Save(ctx context.Context, n domain.Notification) error

	// SaveAll saves each notification in turn.
	SaveAll(ctx context.Context, ns []domain.Notification) error

	FindByID(ctx context.Context, id idx.ID) (domain.Notification, error)

	// FindByUserAndRead returns the user's notifications with the given read
	// flag, newest first.
	FindByUserAndRead(ctx context.Context, userID int64, read bool) ([]domain.Notification, error)

	CountUnreadByUser(ctx context.Context, userID int64) (int64, error)
}

type Listings interface {
	CreateListing(ctx context.Context, l domain.Listing) error

	// GetListingByID returns the listing with its seller's login filled in.
	GetListingByID(ctx context.Context, id idx.ID) (domain.Listing, error)

	// SearchListings returns one page of matches, newest first, and the
	// total number of matches.
	SearchListings(ctx context.Context, f domain.ListingFilter, limit, offset int) ([]domain.Listing, int64, error)

	// ExpireOverdue moves ACTIVE listings whose expiry is not after now to EXPIRED.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type SigningSecrets interface {
	// GetLatestSigningSecret returns the most recently created secret.
	GetLatestSigningSecret(ctx context.Context) (domain.SigningSecret, error)

	CreateSigningSecret(ctx context.Context, s domain.SigningSecret) error
}
