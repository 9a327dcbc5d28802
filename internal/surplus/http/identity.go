package http

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
)

// identityFrom converts the verified claims placed by AuthnMiddleware into
// the identity handed to services.
func identityFrom(ctx context.Context) (domain.Identity, bool) {
	c, ok := httpx.ClaimsFromContext(ctx)
	if !ok || c.Subject == "" {
		return domain.Identity{}, false
	}
	id := domain.Identity{
		Login:       c.Subject,
		Authorities: slices.Clone([]string(c.Auth)),
	}
	if c.UserID != nil {
		id.UserID = *c.UserID
	}
	return id, true
}

// callerIdentity returns the caller's identity with UserID filled in,
// looking the account up for tokens that carry no uid claim. It writes a
// 401 and returns false when there is no usable identity.
func callerIdentity(w http.ResponseWriter, r *http.Request, accounts *service.AccountService) (domain.Identity, bool) {
	id, ok := identityFrom(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return domain.Identity{}, false
	}
	if id.UserID != 0 {
		return id, true
	}

	user, err := accounts.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			err = service.ErrInvalidCredentials
		}
		writeError(w, r, err)
		return domain.Identity{}, false
	}
	id.UserID = user.ID
	return id, true
}
