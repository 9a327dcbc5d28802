package authsdk

import (
	"context"
	"net/http"
)

// Authenticate exchanges credentials for a session token.
func (c *SDKClient) Authenticate(ctx context.Context, req AuthenticateRequest) (*AuthenticateResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/authenticate", req)
	if err != nil {
		return nil, err
	}

	var out AuthenticateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueTokens exchanges credentials for an access/refresh token pair.
func (c *SDKClient) IssueTokens(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/token", req)
	if err != nil {
		return nil, err
	}

	var out TokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshTokens requests a new token pair using a refresh token.
func (c *SDKClient) RefreshTokens(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	var out TokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
