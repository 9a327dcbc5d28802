package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
)

type RegisterHandler struct {
	AccountService *service.AccountService

	// ExposeActivationKey returns the activation key in the response body,
	// for deployments that have no mail delivery.
	ExposeActivationKey bool
}

// ServeHTTP registers a new account.
//
//	@Summary		Register account
//	@Description	Creates a credential record with ROLE_USER and its marketplace profile in one transaction.
//	@Description	A taken login or email is rejected with 400 and nothing is written.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest		true	"Account details"
//	@Success		200		{object}	authsdk.RegisterResponse	"Registered"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Validation failed or login/email already used"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	reg, err := h.AccountService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := authsdk.RegisterResponse{Message: "registration successful"}
	if reg.ActivationKey != "" {
		resp.Message = "registration successful, activation required"
		if h.ExposeActivationKey {
			resp.ActivationKey = reg.ActivationKey
		}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type ActivateHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP activates the account a key was issued for.
//
//	@Summary		Activate account
//	@Description	Activates the account matching the activation key. Keys are single use.
//	@Tags			Account
//	@Produce		json
//	@Param			key	query		string					true	"Activation key"
//	@Success		200	{object}	authsdk.MessageResponse	"Activated"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown or used key"
//	@Router			/activate [get].
func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, err := h.AccountService.Activate(r.Context(), r.URL.Query().Get("key")); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "account activated"})
}

type AccountHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP returns the authenticated account.
//
//	@Summary		Current account
//	@Description	Returns the account of the bearer token's subject along with its profile.
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AccountResponse	"Account"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing token"
//	@Router			/account [get].
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := identityFrom(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.AccountService.GetAccount(ctx, id)
	if err != nil {
		// The token outlived its account
		if errors.Is(err, service.ErrNotFound) {
			err = service.ErrInvalidCredentials
		}
		writeError(w, r, err)
		return
	}

	// Tokens issued before uid was embedded carry no user id
	id.UserID = user.ID

	var profile *domain.Profile
	if p, err := h.AccountService.GetProfile(ctx, id); err == nil {
		profile = &p
	} else if !errors.Is(err, service.ErrNotFound) {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(user, profile))
}
