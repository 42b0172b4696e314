package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"salon/internal/domain/errs"
	"salon/internal/platform/querier"
)

const uniqueViolation = "23505"

type PGStore struct {
	DB querier.Querier
}

// NewStore accepts a pool or an open transaction.
func NewStore(db querier.Querier) *PGStore {
	return &PGStore{DB: db}
}

const entryColumns = `id, appointment_id, employee_id, service_id, tariff_id, tariff_price, extra_amount,
           gross_value, commission_pct, amount, payment_method, created_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	var method string
	if err := row.Scan(&e.ID, &e.AppointmentID, &e.EmployeeID, &e.ServiceID, &e.TariffID, &e.TariffPrice, &e.ExtraAmount,
		&e.GrossValue, &e.CommissionPct, &e.Amount, &method, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	parsed, err := ParsePaymentMethod(method)
	if err != nil {
		return Entry{}, fmt.Errorf("stored commission %s: %w", e.ID, err)
	}
	e.PaymentMethod = parsed
	return e, nil
}

func (s *PGStore) InsertCommission(ctx context.Context, e Entry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO commission_entries (id, appointment_id, employee_id, service_id, tariff_id, tariff_price, extra_amount,
                                    gross_value, commission_pct, amount, payment_method, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, e.ID, e.AppointmentID, e.EmployeeID, e.ServiceID, e.TariffID, e.TariffPrice, e.ExtraAmount,
		e.GrossValue, e.CommissionPct, e.Amount, string(e.PaymentMethod), e.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyRecorded
	}
	return err
}

func (s *PGStore) GetByAppointment(ctx context.Context, appointmentID string) (Entry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, "SELECT "+entryColumns+" FROM commission_entries WHERE appointment_id = $1", appointmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, errs.ErrNotFound
	}
	return e, err
}

// ListByEmployee returns entries created in [from, to), oldest first.
func (s *PGStore) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM commission_entries
    WHERE employee_id = $1 AND created_at >= $2 AND created_at < $3
    ORDER BY created_at, id
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
