package shared

import (
	"log/slog"
	"net/http"

	"salon/internal/domain/audit"
	"salon/internal/platform/requestctx"
)

// RecordAudit stores an audit event for a successful mutation. Failures are
// logged and never change the response.
func RecordAudit(r *http.Request, svc *audit.Service, action, entityType, entityID string, before, after any) {
	if svc == nil {
		return
	}
	actorID := ""
	if user, ok := requestctx.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	requestID := requestctx.GetRequestID(r.Context())
	if err := svc.Record(r.Context(), actorID, action, entityType, entityID, requestID, ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err, "requestId", requestID)
	}
}
