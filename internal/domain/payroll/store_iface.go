package payroll

import (
	"context"
	"time"

	"salon/internal/domain/commission"
)

type Store interface {
	// ListCommissions returns entries created in [from, to).
	ListCommissions(ctx context.Context, employeeID string, from, to time.Time) ([]commission.Entry, error)
	// ListDiscounts returns discounts dated within [start, end], both inclusive.
	ListDiscounts(ctx context.Context, employeeID string, start, end time.Time) ([]Discount, error)
	InsertDiscount(ctx context.Context, d Discount) error
}

var _ Store = (*PGStore)(nil)
