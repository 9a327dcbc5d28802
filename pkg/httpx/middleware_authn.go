package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer token and stores its claims in
// the request context. onReject hooks receive the jwtx.Reason of every
// rejected token.
func AuthnMiddleware(v jwtx.Verifier, onReject ...func(reason string)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				for _, fn := range onReject {
					fn("missing")
				}
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				reason := jwtx.Reason(err)
				log.Warn("jwt verify failed",
					"reason", reason,
					"err", err,
				)
				for _, fn := range onReject {
					fn(reason)
				}
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
