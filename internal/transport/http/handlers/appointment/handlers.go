package appointmenthandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/appointment"
	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/domain/commission"
	"salon/internal/domain/tariff"
	"salon/internal/platform/metrics"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Scheduler *appointment.Scheduler
	Audit     *audit.Service
	Metrics   *metrics.Collector
}

func NewHandler(scheduler *appointment.Scheduler, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Scheduler: scheduler, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.ActionAppointmentRead)).Get("/", h.handleList)
		r.With(middleware.RequireCapability(auth.ActionAppointmentBook)).Post("/", h.handleBook)
		r.With(middleware.RequireCapability(auth.ActionAppointmentRead)).Get("/{appointmentID}", h.handleGet)
		r.With(middleware.RequireCapability(auth.ActionAppointmentReschedule)).Put("/{appointmentID}", h.handleReschedule)
		r.With(middleware.RequireCapability(auth.ActionAppointmentCancel)).Delete("/{appointmentID}", h.handleCancel)
		r.With(middleware.RequireCapability(
			auth.ActionAppointmentConfirm,
			auth.ActionAppointmentComplete,
			auth.ActionAppointmentCancel,
		)).Patch("/{appointmentID}/status", h.handleStatus)
	})
}

// observe feeds engine outcomes into the metrics collector.
func (h *Handler) observe(err error) {
	if h.Metrics == nil || err == nil {
		return
	}
	switch {
	case errors.Is(err, appointment.ErrSlotConflict):
		h.Metrics.SlotConflict()
	case errors.Is(err, appointment.ErrInvalidTransition):
		h.Metrics.InvalidTransition()
	case errors.Is(err, tariff.ErrNoTariff):
		h.Metrics.NoTariff()
	}
}

// visible reports whether the caller may see appointments of employeeID.
// Employees only see their own agenda.
func visible(user auth.UserContext, employeeID string) bool {
	return user.Role != auth.RoleEmployee || user.EmployeeID == employeeID
}

// loadOwned fetches the appointment and hides it from employees it does not belong to.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (appointment.Appointment, auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return appointment.Appointment{}, user, false
	}
	appt, err := h.Scheduler.Get(r.Context(), chi.URLParam(r, "appointmentID"))
	if err == nil && !visible(user, appt.EmployeeID) {
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", middleware.GetRequestID(r.Context()))
		return appointment.Appointment{}, user, false
	}
	if err != nil {
		shared.WriteError(w, r, err, "appointment_get_failed")
		return appointment.Appointment{}, user, false
	}
	return appt, user, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	query := r.URL.Query()
	v := shared.NewValidator()
	filter := appointment.Filter{
		EmployeeID: strings.TrimSpace(query.Get("employee")),
		ClientID:   strings.TrimSpace(query.Get("client")),
	}
	if day := v.OptionalDate("date", query.Get("date")); !day.IsZero() {
		filter.Date = &day
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := appointment.ParseStatus(raw)
		if err != nil {
			v.Add("status", "must be one of pending, confirmed, completed, cancelled")
		}
		filter.Status = status
	}
	if user.Role == auth.RoleEmployee {
		if filter.EmployeeID != "" && filter.EmployeeID != user.EmployeeID {
			v.Add("employee", "employees may only list their own appointments")
		}
		filter.EmployeeID = user.EmployeeID
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	out, err := h.Scheduler.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err, "appointment_list_failed")
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	appt, _, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	api.Success(w, appt, middleware.GetRequestID(r.Context()))
}

type bookPayload struct {
	ClientID        string `json:"clientId"`
	EmployeeID      string `json:"employeeId"`
	ServiceID       string `json:"serviceId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

type slotPayload struct {
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

func parseSlot(v *shared.Validator, p slotPayload) (time.Time, appointment.Clock) {
	day, _ := v.Date("date", p.Date)
	var start appointment.Clock
	if strings.TrimSpace(p.StartTime) == "" {
		v.Add("startTime", "is required")
	} else if parsed, err := appointment.ParseClock(strings.TrimSpace(p.StartTime)); err != nil {
		v.Add("startTime", "must be a time of day in HH:MM format")
	} else {
		start = parsed
	}
	if p.DurationMinutes < 0 {
		v.Add("durationMinutes", "must be a positive multiple of 15")
	}
	return day, start
}

func (h *Handler) handleBook(w http.ResponseWriter, r *http.Request) {
	var payload bookPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("clientId", payload.ClientID, "is required")
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("serviceId", payload.ServiceID, "is required")
	day, start := parseSlot(v, slotPayload{Date: payload.Date, StartTime: payload.StartTime, DurationMinutes: payload.DurationMinutes})
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	appt, err := h.Scheduler.Book(r.Context(), appointment.BookInput{
		ClientID:        strings.TrimSpace(payload.ClientID),
		EmployeeID:      strings.TrimSpace(payload.EmployeeID),
		ServiceID:       strings.TrimSpace(payload.ServiceID),
		Date:            day,
		Start:           start,
		DurationMinutes: payload.DurationMinutes,
	})
	if err != nil {
		h.observe(err)
		shared.WriteError(w, r, err, "appointment_book_failed")
		return
	}
	if h.Metrics != nil {
		h.Metrics.Booked()
	}
	shared.RecordAudit(r, h.Audit, "appointment.book", "appointment", appt.ID, nil, appt)
	api.Created(w, appt, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	before, _, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	var payload slotPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	day, start := parseSlot(v, payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	moved, err := h.Scheduler.Reschedule(r.Context(), before.ID, appointment.RescheduleInput{
		Date:            day,
		Start:           start,
		DurationMinutes: payload.DurationMinutes,
	})
	if err != nil {
		h.observe(err)
		shared.WriteError(w, r, err, "appointment_reschedule_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "appointment.reschedule", "appointment", moved.ID, before, moved)
	api.Success(w, moved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	before, _, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	h.cancel(w, r, before)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request, before appointment.Appointment) {
	cancelled, err := h.Scheduler.Cancel(r.Context(), before.ID)
	if err != nil {
		h.observe(err)
		shared.WriteError(w, r, err, "appointment_cancel_failed")
		return
	}
	shared.RecordAudit(r, h.Audit, "appointment.cancel", "appointment", cancelled.ID, before, cancelled)
	api.Success(w, cancelled, middleware.GetRequestID(r.Context()))
}

type statusPayload struct {
	Status        string      `json:"status"`
	ExtraAmount   json.Number `json:"extraAmount"`
	PaymentMethod string      `json:"paymentMethod"`
}

type completionResponse struct {
	Appointment       appointment.Appointment `json:"appointment"`
	CommissionEntryID string                  `json:"commissionEntryId"`
	Commission        commission.Entry        `json:"commission"`
}

var statusActions = map[appointment.Status]auth.Action{
	appointment.StatusConfirmed: auth.ActionAppointmentConfirm,
	appointment.StatusCompleted: auth.ActionAppointmentComplete,
	appointment.StatusCancelled: auth.ActionAppointmentCancel,
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	before, user, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	var payload statusPayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	target, err := appointment.ParseStatus(payload.Status)
	action, supported := statusActions[target]
	if err != nil || !supported {
		v.Add("status", "must be one of confirmed, completed, cancelled")
	}
	extra := v.Amount("extraAmount", payload.ExtraAmount.String(), true)
	method, err := commission.ParsePaymentMethod(payload.PaymentMethod)
	if err != nil {
		v.Add("paymentMethod", "must be one of cash, card, transfer")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if !auth.CanPerform(user.Role, action) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}

	switch target {
	case appointment.StatusConfirmed:
		confirmed, err := h.Scheduler.Confirm(r.Context(), before.ID)
		if err != nil {
			h.observe(err)
			shared.WriteError(w, r, err, "appointment_confirm_failed")
			return
		}
		shared.RecordAudit(r, h.Audit, "appointment.confirm", "appointment", confirmed.ID, before, confirmed)
		api.Success(w, confirmed, middleware.GetRequestID(r.Context()))
	case appointment.StatusCancelled:
		h.cancel(w, r, before)
	case appointment.StatusCompleted:
		done, err := h.Scheduler.Complete(r.Context(), before.ID, appointment.CompleteInput{ExtraAmount: extra, PaymentMethod: method})
		if err != nil {
			h.observe(err)
			shared.WriteError(w, r, err, "appointment_complete_failed")
			return
		}
		if h.Metrics != nil {
			h.Metrics.Completed()
		}
		shared.RecordAudit(r, h.Audit, "appointment.complete", "appointment", done.Appointment.ID, before, done)
		api.Success(w, completionResponse{
			Appointment:       done.Appointment,
			CommissionEntryID: done.Commission.ID,
			Commission:        done.Commission,
		}, middleware.GetRequestID(r.Context()))
	}
}
