package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
)

// translate maps a service or token error onto its wire form:
// validation 400, credentials and tokens 401, access denied 403,
// not found 404, conflict 400, anything else 500.
func translate(err error) *authsdk.APIError {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return &authsdk.APIError{
			StatusCode: http.StatusBadRequest,
			Code:       authsdk.ErrorCodeValidation,
			Message:    "validation failed",
			Fields:     verr.Fields,
		}
	case errors.Is(err, service.ErrValidation):
		return authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeValidation, "validation failed")

	// Not activated shares the body of bad credentials
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotActivated):
		return authsdk.ErrInvalidCredentials
	case jwtx.IsTokenError(err):
		return authsdk.ErrInvalidToken

	case errors.Is(err, service.ErrAccessDenied):
		return authsdk.ErrAccessDenied
	case errors.Is(err, service.ErrNotFound):
		return authsdk.ErrNotFound

	case errors.Is(err, service.ErrLoginAlreadyUsed):
		return authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeConflict, "login already used")
	case errors.Is(err, service.ErrEmailAlreadyUsed):
		return authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeConflict, "email already used")
	case errors.Is(err, service.ErrConflict):
		return authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeConflict, "conflict")
	}
	return authsdk.ErrServerError
}

// writeError logs err through the request logger and writes its translation.
// Internal errors never reach the body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := translate(err)
	log := slogx.FromContext(r.Context())

	if apiErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", slog.String("kind", apiErr.Code), slog.Any("err", err))
	} else {
		log.Info("request rejected",
			slog.Int("status", apiErr.StatusCode),
			slog.String("kind", apiErr.Code),
			slog.String("err", err.Error()),
		)
	}
	apiErr.WriteError(w)
}

// writeDecodeError answers a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Info("request body rejected", slog.String("err", err.Error()))
	authsdk.ErrBadRequest.WithMessage(err.Error()).WriteError(w)
}
