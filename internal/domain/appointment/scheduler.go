package appointment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salon/internal/domain/catalog"
	"salon/internal/domain/commission"
	"salon/internal/domain/errs"
	"salon/internal/domain/tariff"
)

// Directory is the read-only view of employees, services and clients.
type Directory interface {
	GetService(ctx context.Context, id string) (catalog.Service, error)
	GetEmployee(ctx context.Context, id string) (catalog.Employee, error)
	GetClient(ctx context.Context, id string) (catalog.Client, error)
}

type PriceResolver interface {
	PriceAt(ctx context.Context, serviceID string, ts time.Time) (tariff.Tariff, error)
}

type Scheduler struct {
	store       Store
	directory   Directory
	prices      PriceResolver
	commissions *commission.Calculator
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewScheduler(store Store, directory Directory, prices PriceResolver, commissions *commission.Calculator, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:       store,
		directory:   directory,
		prices:      prices,
		commissions: commissions,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lookup[T any](ctx context.Context, field string, id string, get func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if strings.TrimSpace(id) == "" {
		return zero, errs.Invalid(field, "is required")
	}
	v, err := get(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return zero, errs.Invalid(field, "does not exist")
	}
	return v, err
}

// Book creates a pending appointment after checking the employee's agenda.
func (s *Scheduler) Book(ctx context.Context, in BookInput) (Appointment, error) {
	if in.Date.IsZero() {
		return Appointment{}, errs.Invalid("date", "is required")
	}
	svc, err := lookup(ctx, "serviceId", in.ServiceID, s.directory.GetService)
	if err != nil {
		return Appointment{}, err
	}
	if !svc.Status.IsActive() {
		return Appointment{}, catalog.ErrServiceInactive
	}
	emp, err := lookup(ctx, "employeeId", in.EmployeeID, s.directory.GetEmployee)
	if err != nil {
		return Appointment{}, err
	}
	if !emp.Status.IsActive() {
		return Appointment{}, ErrEmployeeInactive
	}
	if _, err := lookup(ctx, "clientId", in.ClientID, s.directory.GetClient); err != nil {
		return Appointment{}, err
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = svc.DurationMinutes
	}
	if err := ValidateDuration(duration); err != nil {
		return Appointment{}, err
	}
	if err := ValidateSlot(in.Start, duration); err != nil {
		return Appointment{}, err
	}

	now := s.now().UTC()
	appt := Appointment{
		ID:              uuid.NewString(),
		ClientID:        in.ClientID,
		EmployeeID:      in.EmployeeID,
		ServiceID:       in.ServiceID,
		Date:            NormalizeDate(in.Date),
		Start:           in.Start,
		DurationMinutes: duration,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.store.WithEmployeeLock(ctx, appt.EmployeeID, func(tx Tx) error {
		if err := checkSlot(ctx, tx, appt); err != nil {
			return err
		}
		return tx.Insert(ctx, appt)
	})
	if err != nil {
		return Appointment{}, err
	}
	s.logger.Info("appointment booked", "appointmentId", appt.ID, "employeeId", appt.EmployeeID, "date", appt.Date.Format("2006-01-02"), "start", appt.Start.String())
	return appt, nil
}

func checkSlot(ctx context.Context, tx Tx, appt Appointment) error {
	existing, err := tx.ListForEmployeeDay(ctx, appt.EmployeeID, appt.Date)
	if err != nil {
		return err
	}
	if other, ok := FindConflict(appt, existing); ok {
		return &SlotConflictError{AppointmentID: other.ID, Start: other.Start, End: other.End()}
	}
	return nil
}

func (s *Scheduler) Confirm(ctx context.Context, id string) (Appointment, error) {
	return s.transition(ctx, id, StatusConfirmed)
}

// Cancel is not idempotent: cancelling twice is an invalid transition.
func (s *Scheduler) Cancel(ctx context.Context, id string) (Appointment, error) {
	return s.transition(ctx, id, StatusCancelled)
}

func (s *Scheduler) transition(ctx context.Context, id string, to Status) (Appointment, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	var updated Appointment
	err = s.store.WithEmployeeLock(ctx, current.EmployeeID, func(tx Tx) error {
		appt, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !CanTransition(appt.Status, to) {
			return &TransitionError{From: appt.Status, To: to}
		}
		appt.Status = to
		appt.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, appt); err != nil {
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}
	s.logger.Info("appointment status changed", "appointmentId", id, "status", string(to))
	return updated, nil
}

// Reschedule moves a pending or confirmed appointment. On conflict the
// appointment is left as it was.
func (s *Scheduler) Reschedule(ctx context.Context, id string, in RescheduleInput) (Appointment, error) {
	if in.Date.IsZero() {
		return Appointment{}, errs.Invalid("date", "is required")
	}
	if in.DurationMinutes != 0 {
		if err := ValidateDuration(in.DurationMinutes); err != nil {
			return Appointment{}, err
		}
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	var moved Appointment
	err = s.store.WithEmployeeLock(ctx, current.EmployeeID, func(tx Tx) error {
		appt, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !appt.Status.Reschedulable() {
			return &TransitionError{From: appt.Status, To: appt.Status, Action: "reschedule"}
		}
		next := appt
		next.Date = NormalizeDate(in.Date)
		next.Start = in.Start
		if in.DurationMinutes != 0 {
			next.DurationMinutes = in.DurationMinutes
		}
		if err := ValidateSlot(next.Start, next.DurationMinutes); err != nil {
			return err
		}
		if err := checkSlot(ctx, tx, next); err != nil {
			return err
		}
		next.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, next); err != nil {
			return err
		}
		moved = next
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}
	s.logger.Info("appointment rescheduled", "appointmentId", id, "date", moved.Date.Format("2006-01-02"), "start", moved.Start.String())
	return moved, nil
}

// Complete marks a confirmed appointment completed and records its
// commission in the same transaction, priced at the completion instant.
func (s *Scheduler) Complete(ctx context.Context, id string, in CompleteInput) (Completion, error) {
	if err := commission.ValidateExtra(in.ExtraAmount); err != nil {
		return Completion{}, err
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Completion{}, err
	}

	var out Completion
	err = s.store.WithEmployeeLock(ctx, current.EmployeeID, func(tx Tx) error {
		appt, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if !CanTransition(appt.Status, StatusCompleted) {
			return &TransitionError{From: appt.Status, To: StatusCompleted}
		}
		svc, err := s.directory.GetService(ctx, appt.ServiceID)
		if err != nil {
			return err
		}
		completedAt := s.now().UTC()
		price, err := s.prices.PriceAt(ctx, appt.ServiceID, completedAt)
		if err != nil {
			return err
		}

		appt.Status = StatusCompleted
		appt.CompletedAt = &completedAt
		appt.UpdatedAt = completedAt
		if err := tx.Update(ctx, appt); err != nil {
			return err
		}
		entry, err := s.commissions.Record(ctx, tx, commission.Input{
			AppointmentID: appt.ID,
			EmployeeID:    appt.EmployeeID,
			ServiceID:     appt.ServiceID,
			Tariff:        price,
			CommissionPct: svc.CommissionPct,
			ExtraAmount:   in.ExtraAmount,
			PaymentMethod: in.PaymentMethod,
			At:            completedAt,
		})
		if err != nil {
			return err
		}
		out = Completion{Appointment: appt, Commission: entry}
		return nil
	})
	if err != nil {
		return Completion{}, err
	}
	s.logger.Info("appointment completed", "appointmentId", id, "commissionId", out.Commission.ID, "amount", out.Commission.Amount.String())
	return out, nil
}

func (s *Scheduler) Get(ctx context.Context, id string) (Appointment, error) {
	return s.store.Get(ctx, id)
}

func (s *Scheduler) List(ctx context.Context, filter Filter) ([]Appointment, error) {
	if filter.Date != nil {
		day := NormalizeDate(*filter.Date)
		filter.Date = &day
	}
	return s.store.List(ctx, filter)
}
