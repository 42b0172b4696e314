package cataloghandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/domain/catalog"
	"salon/internal/domain/tariff"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Directory *catalog.Directory
	Ledger    *tariff.Ledger
	Audit     *audit.Service
	Location  *time.Location
}

func NewHandler(directory *catalog.Directory, ledger *tariff.Ledger, auditSvc *audit.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{Directory: directory, Ledger: ledger, Audit: auditSvc, Location: loc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequireCapability(auth.ActionCatalogRead)
	write := middleware.RequireCapability(auth.ActionCatalogWrite)

	r.Route("/services", func(r chi.Router) {
		r.With(read).Get("/", h.handleListServices)
		r.With(write).Post("/", h.handleCreateService)
		r.With(read).Get("/{serviceID}", h.handleGetService)
		r.With(write).Put("/{serviceID}", h.handleUpdateService)
		r.With(write).Patch("/{serviceID}/status", h.handleServiceStatus)
		r.With(middleware.RequireCapability(auth.ActionTariffRead)).Get("/{serviceID}/tariffs", h.handleTariffHistory)
		r.With(middleware.RequireCapability(auth.ActionTariffRead)).Get("/{serviceID}/tariffs/current", h.handleCurrentTariff)
		r.With(middleware.RequireCapability(auth.ActionTariffRead)).Get("/{serviceID}/tariffs/at", h.handleTariffAt)
		r.With(middleware.RequireCapability(auth.ActionTariffWrite)).Post("/{serviceID}/tariffs", h.handleSetPrice)
	})
	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleListEmployees)
		r.With(write).Post("/", h.handleCreateEmployee)
		r.With(read).Get("/{employeeID}", h.handleGetEmployee)
		r.With(write).Patch("/{employeeID}/status", h.handleEmployeeStatus)
	})
	r.Route("/clients", func(r chi.Router) {
		r.With(read).Get("/", h.handleListClients)
		r.With(write).Post("/", h.handleCreateClient)
		r.With(read).Get("/{clientID}", h.handleGetClient)
	})
}

func decodeOrFail(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

// effectiveFrom parses an optional instant; a bare date is midnight in the salon's zone.
func (h *Handler) effectiveFrom(v *shared.Validator, raw string) time.Time {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}
	}
	parsed, err := shared.ParseInstant(raw, h.Location)
	if err != nil {
		v.Add("effectiveFrom", "must be an RFC3339 timestamp or YYYY-MM-DD date")
		return time.Time{}
	}
	return parsed
}

type servicePayload struct {
	Name            string      `json:"name"`
	DurationMinutes int         `json:"durationMinutes"`
	CommissionPct   json.Number `json:"commissionPct"`
	CategoryID      string      `json:"categoryId"`
	Price           json.Number `json:"price"`
	EffectiveFrom   string      `json:"effectiveFrom"`
}

type serviceResponse struct {
	Service catalog.Service `json:"service"`
	Tariff  *tariff.Tariff  `json:"tariff,omitempty"`
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Directory.ListServices(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "service_list_failed")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Directory.GetService(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		shared.WriteError(w, r, err, "service_get_failed")
		return
	}
	api.Success(w, svc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var payload servicePayload
	if !decodeOrFail(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	pct := v.Amount("commissionPct", payload.CommissionPct.String(), false)
	price := v.Amount("price", payload.Price.String(), false)
	from := h.effectiveFrom(v, payload.EffectiveFrom)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	svc, opened, err := h.Directory.CreateService(r.Context(), catalog.NewService{
		Name:            payload.Name,
		DurationMinutes: payload.DurationMinutes,
		CommissionPct:   pct,
		CategoryID:      payload.CategoryID,
		Price:           price,
		EffectiveFrom:   from,
	})
	if err != nil {
		shared.WriteError(w, r, err, "service_create_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "service.create", "service", svc.ID, nil, svc)
	api.Created(w, serviceResponse{Service: svc, Tariff: &opened}, middleware.GetRequestID(r.Context()))
}

type serviceUpdatePayload struct {
	Name            *string      `json:"name"`
	DurationMinutes *int         `json:"durationMinutes"`
	CommissionPct   *json.Number `json:"commissionPct"`
	CategoryID      *string      `json:"categoryId"`
	Price           *json.Number `json:"price"`
	EffectiveFrom   string       `json:"effectiveFrom"`
}

func (h *Handler) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload serviceUpdatePayload
	if !decodeOrFail(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	update := catalog.ServiceUpdate{
		Name:            payload.Name,
		DurationMinutes: payload.DurationMinutes,
		CategoryID:      payload.CategoryID,
		EffectiveFrom:   h.effectiveFrom(v, payload.EffectiveFrom),
	}
	if payload.CommissionPct != nil {
		pct := v.Amount("commissionPct", payload.CommissionPct.String(), false)
		update.CommissionPct = &pct
	}
	if payload.Price != nil {
		price := v.Amount("price", payload.Price.String(), false)
		update.Price = &price
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if update.Price != nil && !auth.CanPerform(user.Role, auth.ActionTariffWrite) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	id := chi.URLParam(r, "serviceID")
	before, err := h.Directory.GetService(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err, "service_update_failed")
		return
	}
	svc, opened, err := h.Directory.UpdateService(r.Context(), id, update)
	if err != nil {
		shared.WriteError(w, r, err, "service_update_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "service.update", "service", svc.ID, before, serviceResponse{Service: svc, Tariff: opened})
	api.Success(w, serviceResponse{Service: svc, Tariff: opened}, middleware.GetRequestID(r.Context()))
}

type statusPayload struct {
	Status catalog.Status `json:"status"`
}

func (h *Handler) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if !decodeOrFail(w, r, &payload) {
		return
	}
	if payload.Status == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "status", Reason: "is required"}})
		return
	}
	svc, err := h.Directory.SetServiceStatus(r.Context(), chi.URLParam(r, "serviceID"), payload.Status)
	if err != nil {
		shared.WriteError(w, r, err, "service_status_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "service.status", "service", svc.ID, nil, svc)
	api.Success(w, svc, middleware.GetRequestID(r.Context()))
}

type pricePayload struct {
	Price         json.Number `json:"price"`
	EffectiveFrom string      `json:"effectiveFrom"`
}

func (h *Handler) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var payload pricePayload
	if !decodeOrFail(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	price := v.Amount("price", payload.Price.String(), false)
	v.Required("effectiveFrom", payload.EffectiveFrom, "is required")
	from := h.effectiveFrom(v, payload.EffectiveFrom)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	svc, err := h.Directory.GetService(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		shared.WriteError(w, r, err, "tariff_set_failed")
		return
	}
	if !svc.Status.IsActive() {
		shared.WriteError(w, r, catalog.ErrServiceInactive, "tariff_set_failed")
		return
	}
	opened, err := h.Ledger.SetPrice(r.Context(), svc.ID, price, from)
	if err != nil {
		shared.WriteError(w, r, err, "tariff_set_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "tariff.set", "service", svc.ID, nil, opened)
	api.Success(w, opened, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTariffHistory(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Directory.GetService(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		shared.WriteError(w, r, err, "tariff_history_failed")
		return
	}
	history, err := h.Ledger.History(r.Context(), svc.ID)
	if err != nil {
		shared.WriteError(w, r, err, "tariff_history_failed")
		return
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}

// writeTariffLookup reports a missing tariff as 404 on read endpoints.
func writeTariffLookup(w http.ResponseWriter, r *http.Request, t tariff.Tariff, err error) {
	if errors.Is(err, tariff.ErrNoTariff) {
		api.Fail(w, http.StatusNotFound, "no_tariff", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		shared.WriteError(w, r, err, "tariff_lookup_failed")
		return
	}
	api.Success(w, t, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCurrentTariff(w http.ResponseWriter, r *http.Request) {
	t, err := h.Ledger.Current(r.Context(), chi.URLParam(r, "serviceID"))
	writeTariffLookup(w, r, t, err)
}

func (h *Handler) handleTariffAt(w http.ResponseWriter, r *http.Request) {
	ts, err := shared.ParseInstant(r.URL.Query().Get("ts"), h.Location)
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "ts", Reason: "must be an RFC3339 timestamp or YYYY-MM-DD date"}})
		return
	}
	t, err := h.Ledger.PriceAt(r.Context(), chi.URLParam(r, "serviceID"), ts)
	writeTariffLookup(w, r, t, err)
}

type employeePayload struct {
	Name string `json:"name"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	out, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "employee_list_failed")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Directory.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, "employee_get_failed")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if !decodeOrFail(w, r, &payload) {
		return
	}
	emp, err := h.Directory.CreateEmployee(r.Context(), payload.Name)
	if err != nil {
		shared.WriteError(w, r, err, "employee_create_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "employee.create", "employee", emp.ID, nil, emp)
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if !decodeOrFail(w, r, &payload) {
		return
	}
	if payload.Status == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "status", Reason: "is required"}})
		return
	}
	emp, err := h.Directory.SetEmployeeStatus(r.Context(), chi.URLParam(r, "employeeID"), payload.Status)
	if err != nil {
		shared.WriteError(w, r, err, "employee_status_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "employee.status", "employee", emp.ID, nil, emp)
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

type clientPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	out, err := h.Directory.ListClients(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "client_list_failed")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Directory.GetClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		shared.WriteError(w, r, err, "client_get_failed")
		return
	}
	api.Success(w, client, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var payload clientPayload
	if !decodeOrFail(w, r, &payload) {
		return
	}
	client, err := h.Directory.CreateClient(r.Context(), payload.Name, payload.Phone, payload.Email)
	if err != nil {
		shared.WriteError(w, r, err, "client_create_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "client.create", "client", client.ID, nil, client)
	api.Created(w, client, middleware.GetRequestID(r.Context()))
}
