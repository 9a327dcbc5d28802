package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const DefaultCurrency = "AUD"

type ListingService struct {
	Store store.Store
	Now   func() time.Time
}

type CreateListingInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	PriceCents  int64      `json:"priceCents"`
	Currency    string     `json:"currency"`
	Quantity    int        `json:"quantity"`
	Location    string     `json:"location"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

func (in CreateListingInput) validate(now time.Time) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(3, 120)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
		validation.Field(&in.Tags, validation.Length(0, 10), validation.By(checkTags)),
		validation.Field(&in.PriceCents, validation.Min(int64(0))),
		validation.Field(&in.Currency, validation.Length(3, 3), is.UpperCase),
		validation.Field(&in.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&in.Location, validation.Length(0, 100)),
		validation.Field(&in.ExpiresAt, validation.By(func(v any) error {
			var t time.Time
			switch tv := v.(type) {
			case *time.Time:
				if tv == nil {
					return nil
				}
				t = *tv
			case time.Time:
				t = tv
			}
			if !t.After(now) {
				return errors.New("must be in the future")
			}
			return nil
		})),
	)
}

// Create publishes a new ACTIVE listing owned by the caller.
func (s *ListingService) Create(ctx context.Context, id domain.Identity, in CreateListingInput) (domain.Listing, error) {
	now := s.now()

	in.Title = strings.TrimSpace(in.Title)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
	if err := newValidationError(in.validate(now)); err != nil {
		return domain.Listing{}, err
	}

	l := domain.Listing{
		ID:          idx.NewAt(now),
		Seller:      domain.UserRef{ID: id.UserID, Login: id.Login},
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Tags:        normalizeTags(in.Tags),
		PriceCents:  in.PriceCents,
		Currency:    in.Currency,
		Quantity:    in.Quantity,
		Location:    strings.TrimSpace(in.Location),
		Status:      domain.ListingActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC()
		l.ExpiresAt = &t
	}

	if err := s.Store.Listings().CreateListing(ctx, l); err != nil {
		return domain.Listing{}, err
	}

	slogx.FromContext(ctx).Info("listing created",
		slog.String("id", l.ID.String()),
		slog.String("seller", l.Seller.Login),
	)
	return l, nil
}

func (s *ListingService) Get(ctx context.Context, id idx.ID) (domain.Listing, error) {
	l, err := s.Store.Listings().GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Listing{}, ErrNotFound
		}
		return domain.Listing{}, err
	}
	return l, nil
}

// Search returns one page of listings matching f and the total number of
// matches. Searching ACTIVE listings also hides those already past expiry.
func (s *ListingService) Search(ctx context.Context, f domain.ListingFilter, limit, offset int) ([]domain.Listing, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fieldError("status", "unknown listing status")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, 0, fieldError("minPrice", "must not exceed maxPrice")
	}
	if f.Status == domain.ListingActive && f.ActiveAt == nil {
		now := s.now()
		f.ActiveAt = &now
	}
	return s.Store.Listings().SearchListings(ctx, f, limit, offset)
}

func (s *ListingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func checkTags(v any) error {
	tags, _ := v.([]string)
	for _, t := range tags {
		if n := len(strings.TrimSpace(t)); n == 0 || n > 30 {
			return errors.New("each tag must be 1 to 30 characters")
		}
	}
	return nil
}

// normalizeTags lowercases, trims and de-duplicates tags. Commas are the
// storage separator so they are dropped.
func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(t, ",", " ")))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
