package middleware

import (
	"net/http"

	"salon/internal/domain/auth"
	"salon/internal/transport/http/api"
)

// RequireCapability admits the request when the caller's role may perform
// any of the listed actions.
func RequireCapability(actions ...auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			for _, action := range actions {
				if auth.CanPerform(user.Role, action) {
					next.ServeHTTP(w, r)
					return
				}
			}
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
		})
	}
}
