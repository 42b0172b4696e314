package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"salon/internal/domain/appointment"
	"salon/internal/domain/catalog"
	"salon/internal/domain/commission"
	"salon/internal/domain/errs"
	"salon/internal/domain/payroll"
	"salon/internal/domain/tariff"
	"salon/internal/platform/requestctx"
	"salon/internal/transport/http/api"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorTable = []errorMapping{
	{tariff.ErrNoTariff, http.StatusConflict, "no_tariff", "no tariff in effect for the service"},
	{tariff.ErrInvalidPrice, http.StatusBadRequest, "invalid_price", "price must not be negative"},
	{tariff.ErrOutOfOrder, http.StatusBadRequest, "out_of_order", "effective date precedes the current tariff"},
	{commission.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount", "amount must be non-negative with at most 2 decimal places"},
	{commission.ErrInvalidPercentage, http.StatusBadRequest, "invalid_percentage", "commission percentage must be between 0 and 100 with at most 2 decimal places"},
	{commission.ErrAlreadyRecorded, http.StatusConflict, "already_recorded", "commission already recorded for appointment"},
	{payroll.ErrInvalidRange, http.StatusBadRequest, "invalid_range", "period end is before start"},
	{payroll.ErrInvalidDiscount, http.StatusBadRequest, "invalid_amount", "discount value must be positive with at most 2 decimal places"},
	{catalog.ErrServiceInactive, http.StatusBadRequest, "service_inactive", "service is inactive"},
	{appointment.ErrEmployeeInactive, http.StatusBadRequest, "employee_inactive", "employee is inactive"},
	{errs.ErrNotFound, http.StatusNotFound, "not_found", "resource not found"},
}

// WriteError maps a domain error onto the response envelope. Unknown errors
// are logged and reported with fallbackCode as a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	requestID := requestctx.GetRequestID(r.Context())

	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		FailValidation(w, requestID, []ValidationIssue{{Field: validation.Field, Reason: validation.Reason}})
		return
	}

	var conflict *appointment.SlotConflictError
	if errors.As(err, &conflict) {
		api.FailWithDetails(w, http.StatusConflict, "slot_conflict", "employee already has an appointment in that slot", map[string]any{
			"conflictingAppointmentId": conflict.AppointmentID,
			"conflictStart":            conflict.Start.String(),
			"conflictEnd":              conflict.End.String(),
		}, requestID)
		return
	}

	var transition *appointment.TransitionError
	if errors.As(err, &transition) {
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_transition", transition.Error(), map[string]any{
			"from": string(transition.From),
			"to":   string(transition.To),
		}, requestID)
		return
	}

	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			api.Fail(w, m.status, m.code, m.message, requestID)
			return
		}
	}

	slog.Error("request failed", "code", fallbackCode, "path", r.URL.Path, "requestId", requestID, "err", err)
	api.Fail(w, http.StatusInternalServerError, fallbackCode, "internal error", requestID)
}
