package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &AccountService{Store: s, RequireActivation: true}

	seed := AdminSeed{Login: "Admin", Email: "admin@example.com", Password: "admin-pw"}

	created, err := svc.EnsureAdmin(ctx, seed)
	require.NoError(t, err)
	require.True(t, created)

	u, err := s.Users().GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	require.True(t, u.Activated)
	require.ElementsMatch(t, []string{domain.RoleUser, domain.RoleAdmin}, u.Authorities)

	_, err = s.Profiles().GetProfileByUserID(ctx, u.ID)
	require.NoError(t, err)

	t.Run("idempotent", func(t *testing.T) {
		created, err := svc.EnsureAdmin(ctx, AdminSeed{Login: "admin", Email: "other@example.com", Password: "changed"})
		require.NoError(t, err)
		require.False(t, created)

		again, err := s.Users().GetUserByLogin(ctx, "admin")
		require.NoError(t, err)
		require.Equal(t, u.PasswordHash, again.PasswordHash)
		require.Equal(t, "admin@example.com", again.Email)
	})

	t.Run("invalid seed", func(t *testing.T) {
		_, err := svc.EnsureAdmin(ctx, AdminSeed{Login: "root", Email: "not-an-email", Password: "pw-root"})
		require.ErrorIs(t, err, ErrValidation)
	})
}
