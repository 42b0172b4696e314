package memstore

import (
	"context"
	"sort"
	"time"

	"salon/internal/domain/appointment"
	"salon/internal/domain/commission"
	"salon/internal/domain/errs"
)

type AppointmentStore struct {
	s *Store
}

// appointmentTx reads through its staged rows before falling back to the
// committed tables.
type appointmentTx struct {
	s           *Store
	staged      map[string]appointment.Appointment
	order       []string
	commissions []commission.Entry
}

func (a *AppointmentStore) WithEmployeeLock(_ context.Context, employeeID string, fn func(appointment.Tx) error) error {
	unlock := a.s.locks.Lock("employee:" + employeeID)
	defer unlock()

	tx := &appointmentTx{s: a.s, staged: make(map[string]appointment.Appointment)}
	if err := fn(tx); err != nil {
		return err
	}

	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, e := range tx.commissions {
		if _, exists := a.s.commissions[e.AppointmentID]; exists {
			return commission.ErrAlreadyRecorded
		}
	}
	for _, id := range tx.order {
		a.s.appointments[id] = tx.staged[id]
	}
	for _, e := range tx.commissions {
		a.s.commissions[e.AppointmentID] = e
	}
	return nil
}

func (tx *appointmentTx) stage(appt appointment.Appointment) {
	if _, ok := tx.staged[appt.ID]; !ok {
		tx.order = append(tx.order, appt.ID)
	}
	tx.staged[appt.ID] = appt
}

func (tx *appointmentTx) Get(_ context.Context, id string) (appointment.Appointment, error) {
	if appt, ok := tx.staged[id]; ok {
		return appt, nil
	}
	tx.s.mu.RLock()
	defer tx.s.mu.RUnlock()
	appt, ok := tx.s.appointments[id]
	if !ok {
		return appointment.Appointment{}, errs.ErrNotFound
	}
	return appt, nil
}

func (tx *appointmentTx) ListForEmployeeDay(_ context.Context, employeeID string, date time.Time) ([]appointment.Appointment, error) {
	tx.s.mu.RLock()
	merged := make(map[string]appointment.Appointment)
	for id, appt := range tx.s.appointments {
		merged[id] = appt
	}
	tx.s.mu.RUnlock()
	for id, appt := range tx.staged {
		merged[id] = appt
	}

	out := make([]appointment.Appointment, 0)
	for _, appt := range merged {
		if appt.EmployeeID == employeeID && appointment.SameDay(appt.Date, date) {
			out = append(out, appt)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (tx *appointmentTx) Insert(_ context.Context, appt appointment.Appointment) error {
	tx.stage(appt)
	return nil
}

func (tx *appointmentTx) Update(ctx context.Context, appt appointment.Appointment) error {
	if _, err := tx.Get(ctx, appt.ID); err != nil {
		return err
	}
	tx.stage(appt)
	return nil
}

func (tx *appointmentTx) InsertCommission(_ context.Context, e commission.Entry) error {
	for _, staged := range tx.commissions {
		if staged.AppointmentID == e.AppointmentID {
			return commission.ErrAlreadyRecorded
		}
	}
	tx.s.mu.RLock()
	_, exists := tx.s.commissions[e.AppointmentID]
	tx.s.mu.RUnlock()
	if exists {
		return commission.ErrAlreadyRecorded
	}
	tx.commissions = append(tx.commissions, e)
	return nil
}

func (a *AppointmentStore) Get(_ context.Context, id string) (appointment.Appointment, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	appt, ok := a.s.appointments[id]
	if !ok {
		return appointment.Appointment{}, errs.ErrNotFound
	}
	return appt, nil
}

func (a *AppointmentStore) List(_ context.Context, filter appointment.Filter) ([]appointment.Appointment, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	out := make([]appointment.Appointment, 0)
	for _, appt := range a.s.appointments {
		if filter.EmployeeID != "" && appt.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.ClientID != "" && appt.ClientID != filter.ClientID {
			continue
		}
		if filter.Date != nil && !appointment.SameDay(appt.Date, *filter.Date) {
			continue
		}
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		out = append(out, appt)
	}
	sortAppointments(out)
	return out, nil
}

// CommissionFor returns the entry recorded for an appointment.
func (a *AppointmentStore) CommissionFor(appointmentID string) (commission.Entry, bool) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	e, ok := a.s.commissions[appointmentID]
	return e, ok
}

func sortAppointments(out []appointment.Appointment) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
}
