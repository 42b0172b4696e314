package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"salon/internal/domain/catalog"
	"salon/internal/domain/errs"
	"salon/internal/domain/money"
)

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, id string) (catalog.Employee, error)
}

// Aggregator builds statements on demand from commission and discount entries.
type Aggregator struct {
	store     Store
	employees EmployeeLookup
	loc       *time.Location
	now       func() time.Time
}

type Option func(*Aggregator)

// WithLocation sets the zone used to turn period dates into instants.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAggregator(store Store, employees EmployeeLookup, opts ...Option) *Aggregator {
	a := &Aggregator{store: store, employees: employees, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Statement(ctx context.Context, employeeID string, start, end time.Time) (Statement, error) {
	if strings.TrimSpace(employeeID) == "" {
		return Statement{}, errs.Invalid("employee", "is required")
	}
	period, err := NewPeriod(start, end, a.loc)
	if err != nil {
		return Statement{}, err
	}

	from, to := period.Window()
	commissions, err := a.store.ListCommissions(ctx, employeeID, from, to)
	if err != nil {
		return Statement{}, fmt.Errorf("list commissions: %w", err)
	}
	discounts, err := a.store.ListDiscounts(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return Statement{}, fmt.Errorf("list discounts: %w", err)
	}
	return BuildStatement(employeeID, period, commissions, discounts), nil
}

func (a *Aggregator) CreateDiscount(ctx context.Context, in DiscountInput) (Discount, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return Discount{}, errs.Invalid("description", "is required")
	}
	if !in.Value.IsPositive() || !money.FitsScale(in.Value) {
		return Discount{}, ErrInvalidDiscount
	}
	if in.Date.IsZero() {
		return Discount{}, errs.Invalid("date", "is required")
	}
	if strings.TrimSpace(in.EmployeeID) == "" {
		return Discount{}, errs.Invalid("employeeId", "is required")
	}
	if _, err := a.employees.GetEmployee(ctx, in.EmployeeID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Discount{}, errs.Invalid("employeeId", "does not exist")
		}
		return Discount{}, err
	}

	d := Discount{
		ID:          uuid.NewString(),
		EmployeeID:  in.EmployeeID,
		Description: description,
		Value:       in.Value.Round(money.Scale),
		Date:        dateOf(in.Date),
		CreatedAt:   a.now().UTC(),
	}
	if err := a.store.InsertDiscount(ctx, d); err != nil {
		return Discount{}, fmt.Errorf("insert discount: %w", err)
	}
	return d, nil
}

func (a *Aggregator) ListDiscounts(ctx context.Context, employeeID string, start, end time.Time) ([]Discount, error) {
	period, err := NewPeriod(start, end, a.loc)
	if err != nil {
		return nil, err
	}
	return a.store.ListDiscounts(ctx, employeeID, period.Start, period.End)
}
