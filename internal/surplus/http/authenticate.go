package http

import (
	"net/http"

	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
)

type AuthenticateHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP issues a session token.
//
//	@Summary		Authenticate
//	@Description	Exchanges a login or email and password for a session token.
//	@Description	rememberMe extends the lifetime from 24 hours to 30 days.
//	@Description	Unknown accounts, wrong passwords and inactive accounts all answer with the same 401.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.AuthenticateRequest		true	"Credentials"
//	@Success		200		{object}	authsdk.AuthenticateResponse	"Session token"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/authenticate [post].
func (h *AuthenticateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.AuthenticateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	tok, err := h.AuthService.Authenticate(r.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthenticateResponse{
		Token:     tok.Token,
		ExpiresAt: tok.ExpiresAt,
	})
}

type TokenHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP issues an access and refresh token pair.
//
//	@Summary		Issue token pair
//	@Description	Exchanges credentials for a short-lived access token and a refresh token.
//	@Description	The refresh token carries no authorities and is rejected as a bearer credential.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.TokenRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse	"Token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	pair, err := h.AuthService.IssuePair(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges a refresh token for a new pair.
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a valid refresh token for a new access and refresh token pair.
//	@Description	The account must still exist and be activated.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.TokenResponse	"Token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or expired refresh token"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}
