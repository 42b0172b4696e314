package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"salon/internal/domain/errs"
	"salon/internal/domain/tariff"
	"salon/internal/platform/querier"
)

type PGStore struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *PGStore {
	return &PGStore{DB: db}
}

// NewPGUnit binds the service store and the tariff ledger to one
// transaction. The ledger's own locking runs inside it as a savepoint.
func NewPGUnit(db querier.TxBeginner) Unit {
	return func(ctx context.Context, fn func(Store, PriceSetter) error) error {
		return querier.InTx(ctx, db, func(tx pgx.Tx) error {
			return fn(NewStore(tx), tariff.NewLedger(tariff.NewStore(tx)))
		})
	}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}

func parseStoredStatus(raw string) (Status, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("stored record: %w", err)
	}
	return status, nil
}

const serviceColumns = "id, name, duration_minutes, commission_pct, COALESCE(category_id, ''), status, created_at, updated_at"

func scanService(row pgx.Row) (Service, error) {
	var svc Service
	var status string
	if err := row.Scan(&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.CommissionPct, &svc.CategoryID, &status, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
		return Service{}, err
	}
	parsed, err := parseStoredStatus(status)
	if err != nil {
		return Service{}, err
	}
	svc.Status = parsed
	return svc, nil
}

func (s *PGStore) InsertService(ctx context.Context, svc Service) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO services (id, name, duration_minutes, commission_pct, category_id, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8)
  `, svc.ID, svc.Name, svc.DurationMinutes, svc.CommissionPct, svc.CategoryID, string(svc.Status), svc.CreatedAt, svc.UpdatedAt)
	return err
}

func (s *PGStore) UpdateService(ctx context.Context, svc Service) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE services
    SET name = $2, duration_minutes = $3, commission_pct = $4, category_id = NULLIF($5,''), status = $6, updated_at = $7
    WHERE id = $1
  `, svc.ID, svc.Name, svc.DurationMinutes, svc.CommissionPct, svc.CategoryID, string(svc.Status), svc.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *PGStore) GetService(ctx context.Context, id string) (Service, error) {
	svc, err := scanService(s.DB.QueryRow(ctx, "SELECT "+serviceColumns+" FROM services WHERE id = $1", id))
	return svc, notFound(err)
}

func (s *PGStore) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+serviceColumns+" FROM services ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var status string
	if err := row.Scan(&emp.ID, &emp.Name, &status, &emp.CreatedAt); err != nil {
		return Employee{}, err
	}
	parsed, err := parseStoredStatus(status)
	if err != nil {
		return Employee{}, err
	}
	emp.Status = parsed
	return emp, nil
}

func (s *PGStore) InsertEmployee(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, name, status, created_at)
    VALUES ($1,$2,$3,$4)
  `, emp.ID, emp.Name, string(emp.Status), emp.CreatedAt)
	return err
}

func (s *PGStore) UpdateEmployee(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET name = $2, status = $3 WHERE id = $1", emp.ID, emp.Name, string(emp.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *PGStore) GetEmployee(ctx context.Context, id string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT id, name, status, created_at FROM employees WHERE id = $1", id))
	return emp, notFound(err)
}

func (s *PGStore) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, status, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanClient(row pgx.Row) (Client, error) {
	var client Client
	var status string
	if err := row.Scan(&client.ID, &client.Name, &client.Phone, &client.Email, &status, &client.CreatedAt); err != nil {
		return Client{}, err
	}
	parsed, err := parseStoredStatus(status)
	if err != nil {
		return Client{}, err
	}
	client.Status = parsed
	return client, nil
}

func (s *PGStore) InsertClient(ctx context.Context, client Client) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO clients (id, name, phone, email, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, client.ID, client.Name, client.Phone, client.Email, string(client.Status), client.CreatedAt)
	return err
}

func (s *PGStore) GetClient(ctx context.Context, id string) (Client, error) {
	client, err := scanClient(s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), status, created_at
    FROM clients
    WHERE id = $1
  `, id))
	return client, notFound(err)
}

func (s *PGStore) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), status, created_at
    FROM clients
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
