package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st}

	reg, err := svc.Register(ctx, RegisterInput{
		Login:       "  Alice ",
		Email:       "alice@x.com",
		Password:    "secret1",
		FirstName:   "Alice",
		Phone:       "0412 345 678",
		CompanyName: "Greengrocer Pty Ltd",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", reg.User.Login)
	require.True(t, reg.User.Activated)
	require.Empty(t, reg.ActivationKey)
	require.Equal(t, []string{domain.RoleUser}, reg.User.Authorities)
	require.Equal(t, domain.DefaultLangKey, reg.User.LangKey)
	require.Equal(t, "+61412345678", reg.Profile.Phone)
	require.NotEqual(t, "secret1", reg.User.PasswordHash)

	profile, err := st.Profiles().GetProfileByUserID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Equal(t, "Greengrocer Pty Ltd", profile.CompanyName)

	t.Run("duplicate login is a conflict", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Login: "ALICE", Email: "other@x.com", Password: "secret1"})
		require.ErrorIs(t, err, ErrConflict)
		require.ErrorIs(t, err, ErrLoginAlreadyUsed)

		ok, err := st.Users().ExistsByEmail(ctx, "other@x.com")
		require.NoError(t, err)
		require.False(t, ok, "no second record")
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Login: "alice2", Email: "ALICE@x.com", Password: "secret1"})
		require.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing login", RegisterInput{Email: "a@x.com", Password: "secret1"}, "login"},
		{"login with at sign", RegisterInput{Login: "a@b", Email: "a@x.com", Password: "secret1"}, "login"},
		{"login with space", RegisterInput{Login: "a b", Email: "a@x.com", Password: "secret1"}, "login"},
		{"bad email", RegisterInput{Login: "abc", Email: "not-an-email", Password: "secret1"}, "email"},
		{"short password", RegisterInput{Login: "abc", Email: "a@x.com", Password: "abc"}, "password"},
		{"bad phone", RegisterInput{Login: "abc", Email: "a@x.com", Password: "secret1", Phone: "12"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestRegister_RequireActivation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st, RequireActivation: true}

	reg, err := svc.Register(ctx, RegisterInput{Login: "bob", Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.False(t, reg.User.Activated)
	require.NotEmpty(t, reg.ActivationKey)
	require.NotEqual(t, reg.ActivationKey, reg.User.ActivationKey, "only the fingerprint is stored")

	t.Run("unknown key", func(t *testing.T) {
		_, err := svc.Activate(ctx, "nope")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = svc.Activate(ctx, "")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("activates once", func(t *testing.T) {
		u, err := svc.Activate(ctx, reg.ActivationKey)
		require.NoError(t, err)
		require.True(t, u.Activated)

		stored, err := st.Users().GetUserByLogin(ctx, "bob")
		require.NoError(t, err)
		require.True(t, stored.Activated)

		_, err = svc.Activate(ctx, reg.ActivationKey)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st}
	u := seedUser(t, st, "carol", "carol@x.com", "secret1", true, domain.RoleUser, domain.RoleAdmin)
	_, err := st.Profiles().CreateProfile(ctx, domain.Profile{UserID: u.ID, Location: "Perth"})
	require.NoError(t, err)

	got, err := svc.GetAccount(ctx, domain.Identity{UserID: u.ID, Login: "carol"})
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.True(t, got.HasAuthority(domain.RoleAdmin))

	p, err := svc.GetProfile(ctx, domain.Identity{UserID: u.ID, Login: "carol"})
	require.NoError(t, err)
	require.Equal(t, "Perth", p.Location)

	_, err = svc.GetAccount(ctx, domain.Identity{Login: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
}
