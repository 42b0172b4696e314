package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"salon/internal/domain/commission"
	"salon/internal/domain/errs"
	"salon/internal/platform/querier"
)

type PGStore struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *PGStore {
	return &PGStore{DB: db}
}

const appointmentColumns = `id, client_id, employee_id, service_id, appt_date, start_minute, duration_minutes,
           status, created_at, updated_at, completed_at`

// scanAppointment normalizes the stored status; callers never see raw strings.
func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	var start int
	var status string
	if err := row.Scan(&a.ID, &a.ClientID, &a.EmployeeID, &a.ServiceID, &a.Date, &start, &a.DurationMinutes,
		&status, &a.CreatedAt, &a.UpdatedAt, &a.CompletedAt); err != nil {
		return Appointment{}, err
	}
	parsed, err := ParseStatus(status)
	if err != nil {
		return Appointment{}, fmt.Errorf("stored appointment %s: %w", a.ID, err)
	}
	a.Start = Clock(start)
	a.Status = parsed
	a.Date = NormalizeDate(a.Date)
	return a, nil
}

func collect(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()
	out := make([]Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func getAppointment(ctx context.Context, db querier.Querier, id string) (Appointment, error) {
	a, err := scanAppointment(db.QueryRow(ctx, "SELECT "+appointmentColumns+" FROM appointments WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, errs.ErrNotFound
	}
	return a, err
}

func (s *PGStore) WithEmployeeLock(ctx context.Context, employeeID string, fn func(Tx) error) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := querier.AdvisoryLock(ctx, tx, "employee:"+employeeID); err != nil {
			return err
		}
		return fn(&pgTx{tx: tx, commissions: commission.NewStore(tx)})
	})
}

func (s *PGStore) Get(ctx context.Context, id string) (Appointment, error) {
	return getAppointment(ctx, s.DB, id)
}

func (s *PGStore) List(ctx context.Context, filter Filter) ([]Appointment, error) {
	query := "SELECT " + appointmentColumns + " FROM appointments WHERE 1=1"
	args := []any{}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		query += fmt.Sprintf(" AND appt_date = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY appt_date, start_minute, id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type pgTx struct {
	tx          pgx.Tx
	commissions *commission.PGStore
}

func (p *pgTx) Get(ctx context.Context, id string) (Appointment, error) {
	return getAppointment(ctx, p.tx, id)
}

func (p *pgTx) ListForEmployeeDay(ctx context.Context, employeeID string, date time.Time) ([]Appointment, error) {
	rows, err := p.tx.Query(ctx, `
    SELECT `+appointmentColumns+`
    FROM appointments
    WHERE employee_id = $1 AND appt_date = $2
    ORDER BY start_minute
  `, employeeID, date)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (p *pgTx) Insert(ctx context.Context, a Appointment) error {
	_, err := p.tx.Exec(ctx, `
    INSERT INTO appointments (id, client_id, employee_id, service_id, appt_date, start_minute, duration_minutes,
                              status, created_at, updated_at, completed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, a.ID, a.ClientID, a.EmployeeID, a.ServiceID, a.Date, int(a.Start), a.DurationMinutes,
		string(a.Status), a.CreatedAt, a.UpdatedAt, a.CompletedAt)
	return err
}

func (p *pgTx) Update(ctx context.Context, a Appointment) error {
	tag, err := p.tx.Exec(ctx, `
    UPDATE appointments
    SET appt_date = $2, start_minute = $3, duration_minutes = $4, status = $5, updated_at = $6, completed_at = $7
    WHERE id = $1
  `, a.ID, a.Date, int(a.Start), a.DurationMinutes, string(a.Status), a.UpdatedAt, a.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (p *pgTx) InsertCommission(ctx context.Context, e commission.Entry) error {
	return p.commissions.InsertCommission(ctx, e)
}
