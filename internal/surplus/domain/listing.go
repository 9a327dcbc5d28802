package domain

import (
	"time"

	"github.com/aussiebroadwan/surplus360/pkg/idx"
)

type ListingStatus string

const (
	ListingActive   ListingStatus = "ACTIVE"
	ListingReserved ListingStatus = "RESERVED"
	ListingSold     ListingStatus = "SOLD"
	ListingExpired  ListingStatus = "EXPIRED"
)

// Valid reports whether s is a known listing status.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingReserved, ListingSold, ListingExpired:
		return true
	}
	return false
}

// Listing is a batch of surplus stock offered by a seller.
type Listing struct {
	ID          idx.ID
	Seller      UserRef
	Title       string
	Description string
	Tags        []string
	PriceCents  int64
	Currency    string
	Quantity    int
	Location    string
	Status      ListingStatus
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingFilter narrows a listing search. Zero values mean "any".
type ListingFilter struct {
	Status   ListingStatus
	Keyword  string // matched against title, description and tags
	MinPrice *int64
	MaxPrice *int64
	Location string // substring, case-insensitive

	// ActiveAt hides listings whose ExpiresAt is not after it.
	ActiveAt *time.Time
}
