//go:build e2e

package surplus_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegistrationFlow registers, activates and signs in a user.
func TestRegistrationFlow(t *testing.T) {
	client := setupContainer(t)
	ctx := t.Context()

	reg, err := client.Register(ctx, authsdk.RegisterRequest{
		Login:       "Alice",
		Email:       "alice@example.com",
		Password:    "alice-pw",
		Phone:       "0412 345 678",
		CompanyName: "Alice's Bakery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.ActivationKey)

	// Not yet activated: indistinguishable from a wrong password
	_, err = client.Authenticate(ctx, authsdk.AuthenticateRequest{Username: "alice", Password: "alice-pw"})
	inactive := requireStatus(t, err, http.StatusUnauthorized)
	_, err = client.Authenticate(ctx, authsdk.AuthenticateRequest{Username: "alice", Password: "wrong"})
	wrong := requireStatus(t, err, http.StatusUnauthorized)
	require.Equal(t, wrong.Code, inactive.Code)
	require.Equal(t, wrong.Message, inactive.Message)

	_, err = client.Activate(ctx, reg.ActivationKey)
	require.NoError(t, err)

	_, err = client.Activate(ctx, reg.ActivationKey)
	requireStatus(t, err, http.StatusNotFound)

	session, err := client.AuthenticateWithPassword(ctx, "alice@example.com", "alice-pw")
	require.NoError(t, err)

	account, err := session.GetAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", account.Login)
	require.True(t, account.Activated)
	require.Equal(t, []string{"ROLE_USER"}, account.Authorities)
	require.NotNil(t, account.Profile)
	require.Equal(t, "+61412345678", account.Profile.Phone)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := client.Register(ctx, authsdk.RegisterRequest{
			Login: "alice2", Email: "alice@example.com", Password: "alice-pw",
		})
		apiErr := requireStatus(t, err, http.StatusBadRequest)
		require.Equal(t, authsdk.ErrorCodeConflict, apiErr.Code)
	})
}

// TestSessionToken checks the /authenticate token and remember me.
func TestSessionToken(t *testing.T) {
	client := setupContainer(t)
	ctx := t.Context()
	registerAndActivate(t, client, "bob", "bob-pw")

	short, err := client.Authenticate(ctx, authsdk.AuthenticateRequest{Username: "bob", Password: "bob-pw"})
	require.NoError(t, err)
	long, err := client.Authenticate(ctx, authsdk.AuthenticateRequest{Username: "bob", Password: "bob-pw", RememberMe: true})
	require.NoError(t, err)
	require.True(t, long.ExpiresAt.After(short.ExpiresAt))

	session := client.NewSessionFromTokens(short.Token, "", 3600)
	account, err := session.GetAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob", account.Login)
}

// TestRefreshFlow exchanges a refresh token and rejects it as a bearer.
func TestRefreshFlow(t *testing.T) {
	client := setupContainer(t)
	ctx := t.Context()
	registerAndActivate(t, client, "carol", "carol-pw")

	pair, err := client.IssueTokens(ctx, authsdk.TokenRequest{Username: "carol", Password: "carol-pw"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)

	next, err := client.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)

	misuse := client.NewSessionFromTokens(pair.RefreshToken, "", 3600)
	_, err = misuse.GetAccount(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = client.RefreshTokens(ctx, pair.AccessToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

// TestRateLimitAuthenticate verifies the strict limit of 5 requests per
// minute on /authenticate.
func TestRateLimitAuthenticate(t *testing.T) {
	client := setupContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	for i := range 5 {
		_, err := client.Authenticate(ctx, authsdk.AuthenticateRequest{Username: "mallory", Password: "guess"})
		requireStatus(t, err, http.StatusUnauthorized)
		t.Logf("attempt %d rejected as invalid credentials", i+1)
	}

	_, err := client.Authenticate(ctx, authsdk.AuthenticateRequest{Username: "mallory", Password: "guess"})
	apiErr := requireStatus(t, err, http.StatusTooManyRequests)
	require.Equal(t, authsdk.ErrorCodeRateLimited, apiErr.Code)
}
