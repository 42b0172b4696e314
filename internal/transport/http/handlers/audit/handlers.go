package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.ActionAuditRead)).Get("/events", h.handleListEvents)
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	page := v.Page(query, 100, 500)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	filter := audit.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		EntityID:   query.Get("entityId"),
		ActorUser:  query.Get("actorUserId"),
	}

	events, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err, "audit_list_failed")
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
