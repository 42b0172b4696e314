package appointment

import (
	"context"
	"time"

	"salon/internal/domain/commission"
)

type Store interface {
	// WithEmployeeLock runs fn in one transaction holding the employee's
	// write lock. Nothing fn wrote is visible unless it returns nil.
	WithEmployeeLock(ctx context.Context, employeeID string, fn func(Tx) error) error
	Get(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, filter Filter) ([]Appointment, error)
}

type Tx interface {
	commission.Writer
	Get(ctx context.Context, id string) (Appointment, error)
	ListForEmployeeDay(ctx context.Context, employeeID string, date time.Time) ([]Appointment, error)
	Insert(ctx context.Context, appt Appointment) error
	Update(ctx context.Context, appt Appointment) error
}
