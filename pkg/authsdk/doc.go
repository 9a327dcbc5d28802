/*
Package authsdk provides a client SDK for the surplus360 marketplace API,
along with the wire types the server encodes.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (register, activate, authenticate,
    listing search, health) and the entry point for creating sessions
  - Session: authenticated operations with automatic token refresh

	client := authsdk.NewSDKClient("https://api.example.com")

	// Register and activate an account
	reg, err := client.Register(ctx, authsdk.RegisterRequest{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	_, err = client.Activate(ctx, reg.ActivationKey)

	// Obtain an access/refresh pair and wrap it in a session
	session, err := client.AuthenticateWithPassword(ctx, "alice", "secret1")

	account, err := session.GetAccount(ctx)
	count, err := session.UnreadCount(ctx)

# Session Tokens

POST /authenticate returns a single session token (24h, or 30 days with
rememberMe). It can be wrapped in a Session without a refresh token:

	auth, err := client.Authenticate(ctx, authsdk.AuthenticateRequest{
		Username: "alice@example.com",
		Password: "secret1",
	})
	session := client.NewSessionFromTokens(auth.Token, "", int(time.Until(auth.ExpiresAt).Seconds()))

# Automatic Token Refresh

Sessions created from a token pair refresh the access token through
POST /auth/refresh shortly before it expires. Refresh tokens are never
accepted as bearer credentials.

# Error Handling

Every non-2xx response is returned as an *APIError carrying the status,
the error code and, for validation failures, a per-field message map:

	_, err := client.Register(ctx, req)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeValidation {
		for field, msg := range apiErr.Fields {
			fmt.Printf("%s: %s\n", field, msg)
		}
	}

Failed authentication always yields the same 401 body, whether the account
is unknown, the password is wrong or the account is not activated.

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
