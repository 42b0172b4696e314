package payroll

import (
	"context"
	"time"

	"salon/internal/domain/commission"
	"salon/internal/platform/querier"
)

type PGStore struct {
	DB          querier.Querier
	commissions *commission.PGStore
}

func NewStore(db querier.Querier) *PGStore {
	return &PGStore{DB: db, commissions: commission.NewStore(db)}
}

func (s *PGStore) ListCommissions(ctx context.Context, employeeID string, from, to time.Time) ([]commission.Entry, error) {
	return s.commissions.ListByEmployee(ctx, employeeID, from, to)
}

// ListDiscounts with an empty employeeID lists every employee.
func (s *PGStore) ListDiscounts(ctx context.Context, employeeID string, start, end time.Time) ([]Discount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, description, value, discount_date, created_at
    FROM discount_entries
    WHERE ($1 = '' OR employee_id = $1) AND discount_date >= $2 AND discount_date <= $3
    ORDER BY discount_date, id
  `, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Discount, 0)
	for rows.Next() {
		var d Discount
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Description, &d.Value, &d.Date, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Date = dateOf(d.Date)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PGStore) InsertDiscount(ctx context.Context, d Discount) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO discount_entries (id, employee_id, description, value, discount_date, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, d.ID, d.EmployeeID, d.Description, d.Value, d.Date, d.CreatedAt)
	return err
}
