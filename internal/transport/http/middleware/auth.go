package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"salon/internal/domain/auth"
	"salon/internal/platform/requestctx"
)

// Auth attaches the caller identity from a bearer token. Requests without a
// valid token pass through anonymous; RequireCapability rejects them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				slog.Debug("bearer token rejected", "err", err, "requestId", GetRequestID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}
			user, err := auth.UserFromClaims(claims)
			if err != nil {
				slog.Debug("token identity rejected", "role", claims.RoleName, "err", err, "requestId", GetRequestID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestctx.WithUser(r.Context(), user)))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	return requestctx.GetUser(ctx)
}
