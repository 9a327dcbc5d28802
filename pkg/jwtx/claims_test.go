package jwtx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRoleList_JSON(t *testing.T) {
	t.Run("encodes as comma joined string", func(t *testing.T) {
		data, err := json.Marshal(jwtx.RoleList{"ROLE_USER", "ROLE_ADMIN"})
		require.NoError(t, err)
		require.JSONEq(t, `"ROLE_USER,ROLE_ADMIN"`, string(data))
	})

	tests := []struct {
		name string
		in   string
		want jwtx.RoleList
	}{
		{"joined string", `"ROLE_USER,ROLE_ADMIN"`, jwtx.RoleList{"ROLE_USER", "ROLE_ADMIN"}},
		{"joined with spaces", `"ROLE_USER, ROLE_ADMIN"`, jwtx.RoleList{"ROLE_USER", "ROLE_ADMIN"}},
		{"list", `["ROLE_USER","ROLE_ADMIN"]`, jwtx.RoleList{"ROLE_USER", "ROLE_ADMIN"}},
		{"empty string", `""`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got jwtx.RoleList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects other shapes", func(t *testing.T) {
		var got jwtx.RoleList
		require.Error(t, json.Unmarshal([]byte(`42`), &got))
	})
}

func TestNewClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	uid := int64(7)
	sub := jwtx.Subject{Login: "alice", UserID: &uid, Roles: []string{"ROLE_USER"}}

	t.Run("access token carries roles", func(t *testing.T) {
		c := jwtx.NewClaims(jwtx.KindAccess, sub, time.Minute, "surplus360", now)
		require.Equal(t, "alice", c.Subject)
		require.Equal(t, jwtx.KindAccess, c.Kind)
		require.True(t, c.HasRole("ROLE_USER"))
		require.Equal(t, &uid, c.UserID)
		require.True(t, c.ExpiresAt.After(c.IssuedAt.Time))
		require.NotEmpty(t, c.ID)
	})

	t.Run("refresh token drops roles", func(t *testing.T) {
		c := jwtx.NewClaims(jwtx.KindRefresh, sub, time.Hour, "", now)
		require.Empty(t, c.Auth)
		require.False(t, c.HasRole("ROLE_USER"))
	})

	t.Run("jti is unique", func(t *testing.T) {
		a := jwtx.NewClaims(jwtx.KindSession, sub, time.Minute, "", now)
		b := jwtx.NewClaims(jwtx.KindSession, sub, time.Minute, "", now)
		require.NotEqual(t, a.ID, b.ID)
	})
}
