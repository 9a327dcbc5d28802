package httpx

import (
	"net/http"
)

// RequireAnyRole the caller must hold at least one of the provided authorities.
func RequireAnyRole(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := ClaimsFromContext(r.Context()); ok {
				for _, role := range required {
					if c.HasRole(role) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			WriteError(w, http.StatusForbidden, "access_denied", "insufficient authority")
		})
	}
}
