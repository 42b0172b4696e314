package payrollhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/domain/payroll"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Aggregator *payroll.Aggregator
	Audit      *audit.Service
}

func NewHandler(aggregator *payroll.Aggregator, auditSvc *audit.Service) *Handler {
	return &Handler{Aggregator: aggregator, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	readers := middleware.RequireCapability(auth.ActionPayrollRead, auth.ActionPayrollReadOwn)
	r.Route("/payroll", func(r chi.Router) {
		r.With(readers).Get("/", h.handleStatement)
		r.With(readers).Get("/discounts", h.handleListDiscounts)
		r.With(middleware.RequireCapability(auth.ActionDiscountWrite)).Post("/discounts", h.handleCreateDiscount)
	})
}

// rangeQuery reads employee, from and to. Callers limited to their own payroll
// may omit employee.
func rangeQuery(w http.ResponseWriter, r *http.Request, requireEmployee bool) (string, time.Time, time.Time, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return "", time.Time{}, time.Time{}, false
	}

	query := r.URL.Query()
	employeeID := strings.TrimSpace(query.Get("employee"))
	if !auth.CanPerform(user.Role, auth.ActionPayrollRead) {
		if employeeID != "" && employeeID != user.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "employees may only read their own payroll", middleware.GetRequestID(r.Context()))
			return "", time.Time{}, time.Time{}, false
		}
		employeeID = user.EmployeeID
	}

	v := shared.NewValidator()
	if requireEmployee {
		v.Required("employee", employeeID, "is required")
	}
	from, _ := v.Date("from", query.Get("from"))
	to, _ := v.Date("to", query.Get("to"))
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return "", time.Time{}, time.Time{}, false
	}
	return employeeID, from, to, true
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	employeeID, from, to, ok := rangeQuery(w, r, true)
	if !ok {
		return
	}
	st, err := h.Aggregator.Statement(r.Context(), employeeID, from, to)
	if err != nil {
		shared.WriteError(w, r, err, "payroll_statement_failed")
		return
	}
	api.Success(w, st, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDiscounts(w http.ResponseWriter, r *http.Request) {
	employeeID, from, to, ok := rangeQuery(w, r, false)
	if !ok {
		return
	}
	out, err := h.Aggregator.ListDiscounts(r.Context(), employeeID, from, to)
	if err != nil {
		shared.WriteError(w, r, err, "discount_list_failed")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type discountPayload struct {
	EmployeeID  string      `json:"employeeId"`
	Description string      `json:"description"`
	Value       json.Number `json:"value"`
	Date        string      `json:"date"`
}

func (h *Handler) handleCreateDiscount(w http.ResponseWriter, r *http.Request) {
	var payload discountPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("description", payload.Description, "is required")
	value := v.Amount("value", payload.Value.String(), false)
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	d, err := h.Aggregator.CreateDiscount(r.Context(), payroll.DiscountInput{
		EmployeeID:  strings.TrimSpace(payload.EmployeeID),
		Description: payload.Description,
		Value:       value,
		Date:        date,
	})
	if err != nil {
		shared.WriteError(w, r, err, "discount_create_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "payroll.discount.create", "discount", d.ID, nil, d)
	api.Created(w, d, middleware.GetRequestID(r.Context()))
}
