package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store/drivers/sqlite"
	"github.com/aussiebroadwan/surplus360/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createUser(t *testing.T, s store.Store, login, email string) domain.User {
	t.Helper()
	u, err := s.Users().CreateUser(context.Background(), domain.User{
		Login:        login,
		Email:        email,
		PasswordHash: "$argon2id$dummy",
		LangKey:      "en",
		Activated:    true,
		Authorities:  []string{domain.RoleUser},
	})
	require.NoError(t, err)
	return u
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	alice := createUser(t, s, "alice", "Alice@Example.com")
	require.NotZero(t, alice.ID)

	t.Run("lookup by login", func(t *testing.T) {
		got, err := s.Users().GetUserByLogin(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.Equal(t, []string{domain.RoleUser}, got.Authorities)
		require.True(t, got.Activated)
	})

	t.Run("lookup by email ignores case", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.COM")
		require.NoError(t, err)
		require.Equal(t, "alice", got.Login)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByLogin(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := s.Users().ExistsByLogin(ctx, "alice")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Users().ExistsByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Users().ExistsByLogin(ctx, "bob")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("duplicate login", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{Login: "alice", Email: "other@example.com", PasswordHash: "x"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{Login: "alice2", Email: "alice@example.com", PasswordHash: "x"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsers_Activation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u, err := s.Users().CreateUser(ctx, domain.User{
		Login: "carol", Email: "carol@example.com", PasswordHash: "x", ActivationKey: "fp-123",
	})
	require.NoError(t, err)

	got, err := s.Users().GetUserByActivationKey(ctx, "fp-123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.False(t, got.Activated)

	require.NoError(t, s.Users().ActivateUser(ctx, u.ID))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Activated)
	require.Empty(t, got.ActivationKey)

	require.ErrorIs(t, s.Users().ActivateUser(ctx, 9999), store.ErrNotFound)
}

func TestUsers_DeleteNotActivatedBefore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	createUser(t, s, "active", "active@example.com")
	_, err := s.Users().CreateUser(ctx, domain.User{Login: "stale", Email: "stale@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	n, err := s.Users().DeleteNotActivatedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, n, "fresh accounts survive")

	n, err = s.Users().DeleteNotActivatedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.Users().GetUserByLogin(ctx, "active")
	require.NoError(t, err)
}

func TestWithTx_Rollback(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().CreateUser(ctx, domain.User{Login: "dave", Email: "dave@example.com", PasswordHash: "x"})
		require.NoError(t, err)
		_, err = tx.Profiles().CreateProfile(ctx, domain.Profile{UserID: u.ID})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := s.Users().ExistsByLogin(ctx, "dave")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := createUser(t, s, "erin", "erin@example.com")

	p, err := s.Profiles().CreateProfile(ctx, domain.Profile{UserID: u.ID, Phone: "+61412345678", Location: "Sydney"})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := s.Profiles().GetProfileByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Sydney", got.Location)

	_, err = s.Profiles().CreateProfile(ctx, domain.Profile{UserID: u.ID})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := createUser(t, s, "frank", "frank@example.com")

	data := "tx-1"
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n1 := domain.Notification{ID: idx.NewAt(base), UserID: u.ID, Type: domain.NotificationTransactionUpdate,
		Title: "t1", Message: "m1", Data: &data, Priority: domain.PriorityHigh, CreatedAt: base}
	n2 := domain.Notification{ID: idx.NewAt(base.Add(time.Minute)), UserID: u.ID, Type: domain.NotificationSystem,
		Title: "t2", Message: "m2", Priority: domain.PriorityNormal, CreatedAt: base.Add(time.Minute)}

	require.NoError(t, s.Notifications().SaveAll(ctx, []domain.Notification{n1, n2}))

	count, err := s.Notifications().CountUnreadByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	unread, err := s.Notifications().FindByUserAndRead(ctx, u.ID, false)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	require.Equal(t, n2.ID, unread[0].ID, "newest first")
	require.Equal(t, "tx-1", *unread[1].Data)
	require.Nil(t, unread[0].Data)

	n1.Read = true
	require.NoError(t, s.Notifications().Save(ctx, n1))

	got, err := s.Notifications().FindByID(ctx, n1.ID)
	require.NoError(t, err)
	require.True(t, got.Read)
	require.Equal(t, "t1", got.Title)

	count, err = s.Notifications().CountUnreadByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = s.Notifications().FindByID(ctx, idx.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seller := createUser(t, s, "grace", "grace@example.com")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	mk := func(title, desc, loc string, price int64, tags []string, expires *time.Time, offset time.Duration) domain.Listing {
		created := now.Add(offset)
		l := domain.Listing{
			ID: idx.NewAt(created), Seller: seller.Ref(), Title: title, Description: desc, Tags: tags,
			PriceCents: price, Currency: "AUD", Quantity: 1, Location: loc, Status: domain.ListingActive,
			ExpiresAt: expires, CreatedAt: created, UpdatedAt: created,
		}
		require.NoError(t, s.Listings().CreateListing(ctx, l))
		return l
	}

	apples := mk("Apples", "crate of red apples", "Sydney NSW", 1500, []string{"fruit", "organic"}, &future, 0)
	mk("Pears", "ripe pears", "Melbourne VIC", 900, []string{"fruit"}, nil, time.Minute)
	stale := mk("Bread", "day old loaves", "Sydney NSW", 300, []string{"bakery"}, &past, 2*time.Minute)

	t.Run("get joins seller", func(t *testing.T) {
		got, err := s.Listings().GetListingByID(ctx, apples.ID)
		require.NoError(t, err)
		require.Equal(t, "grace", got.Seller.Login)
		require.Equal(t, []string{"fruit", "organic"}, got.Tags)
		require.NotNil(t, got.ExpiresAt)
		require.True(t, got.ExpiresAt.Equal(future))
	})

	search := func(f domain.ListingFilter) ([]domain.Listing, int64) {
		items, total, err := s.Listings().SearchListings(ctx, f, 10, 0)
		require.NoError(t, err)
		return items, total
	}

	t.Run("active and unexpired", func(t *testing.T) {
		items, total := search(domain.ListingFilter{Status: domain.ListingActive, ActiveAt: &now})
		require.Equal(t, int64(2), total)
		require.Equal(t, "Pears", items[0].Title, "newest first")
	})

	t.Run("keyword matches tags", func(t *testing.T) {
		items, total := search(domain.ListingFilter{Keyword: "ORGANIC"})
		require.Equal(t, int64(1), total)
		require.Equal(t, apples.ID, items[0].ID)
	})

	t.Run("price range", func(t *testing.T) {
		lo, hi := int64(500), int64(1000)
		items, _ := search(domain.ListingFilter{MinPrice: &lo, MaxPrice: &hi})
		require.Len(t, items, 1)
		require.Equal(t, "Pears", items[0].Title)
	})

	t.Run("location substring", func(t *testing.T) {
		_, total := search(domain.ListingFilter{Location: "sydney"})
		require.Equal(t, int64(2), total)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		_, total := search(domain.ListingFilter{Keyword: "%"})
		require.Zero(t, total)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := s.Listings().SearchListings(ctx, domain.ListingFilter{}, 2, 2)
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
		require.Len(t, items, 1)
		require.Equal(t, apples.ID, items[0].ID)
	})

	t.Run("expire overdue", func(t *testing.T) {
		n, err := s.Listings().ExpireOverdue(ctx, now)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		got, err := s.Listings().GetListingByID(ctx, stale.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ListingExpired, got.Status)
	})
}

func TestSigningSecrets(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.SigningSecrets().GetLatestSigningSecret(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	older := domain.SigningSecret{ID: "a", SecretEncrypted: []byte{1, 2, 3}, CreatedAt: time.Now().Add(-time.Hour)}
	newer := domain.SigningSecret{ID: "b", SecretEncrypted: []byte{4, 5, 6}, CreatedAt: time.Now()}
	require.NoError(t, s.SigningSecrets().CreateSigningSecret(ctx, older))
	require.NoError(t, s.SigningSecrets().CreateSigningSecret(ctx, newer))

	got, err := s.SigningSecrets().GetLatestSigningSecret(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", got.ID)
	require.Equal(t, []byte{4, 5, 6}, got.SecretEncrypted)
}
