package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"salon/internal/transport/http/api"
	"salon/internal/transport/http/shared"
)

// RateLimit allows limit requests per window for each caller, keyed by the
// authenticated user when present and by client IP otherwise.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: window, Limit: int64(limit)})
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(actorOrIPKey),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded",
				"key", actorOrIPKey(r),
				"path", r.URL.Path,
				"method", r.Method,
				"limit", limit,
				"windowSec", int(window.Seconds()),
			)
			api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("rate limiter failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "rate_limit_error", "rate limiter unavailable", GetRequestID(r.Context()))
		}),
	)
	return mw.Handler
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return "ip:" + shared.ClientIP(r)
}
