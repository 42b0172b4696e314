package tariff

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"salon/internal/domain/errs"
	"salon/internal/platform/querier"
)

type PGStore struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *PGStore {
	return &PGStore{DB: db}
}

const tariffColumns = "id, service_id, price, effective_from, effective_to, created_at"

func scanTariff(row pgx.Row) (Tariff, error) {
	var t Tariff
	err := row.Scan(&t.ID, &t.ServiceID, &t.Price, &t.EffectiveFrom, &t.EffectiveTo, &t.CreatedAt)
	return t, err
}

func (s *PGStore) WithServiceLock(ctx context.Context, serviceID string, fn func(Tx) error) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := querier.AdvisoryLock(ctx, tx, "tariff:"+serviceID); err != nil {
			return err
		}
		return fn(&pgTx{tx: tx})
	})
}

func (s *PGStore) History(ctx context.Context, serviceID string) ([]Tariff, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+tariffColumns+`
    FROM tariffs
    WHERE service_id = $1
    ORDER BY effective_from, created_at
  `, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Tariff, 0)
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) At(ctx context.Context, serviceID string, ts time.Time) (Tariff, error) {
	t, err := scanTariff(s.DB.QueryRow(ctx, `
    SELECT `+tariffColumns+`
    FROM tariffs
    WHERE service_id = $1
      AND effective_from <= $2
      AND (effective_to IS NULL OR effective_to > $2)
    ORDER BY effective_from DESC
    LIMIT 1
  `, serviceID, ts))
	if errors.Is(err, pgx.ErrNoRows) {
		return Tariff{}, errs.ErrNotFound
	}
	return t, err
}

type pgTx struct {
	tx pgx.Tx
}

func (p *pgTx) Open(ctx context.Context, serviceID string) (Tariff, bool, error) {
	t, err := scanTariff(p.tx.QueryRow(ctx, `
    SELECT `+tariffColumns+`
    FROM tariffs
    WHERE service_id = $1 AND effective_to IS NULL
  `, serviceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Tariff{}, false, nil
	}
	if err != nil {
		return Tariff{}, false, err
	}
	return t, true, nil
}

func (p *pgTx) Close(ctx context.Context, tariffID string, effectiveTo time.Time) error {
	_, err := p.tx.Exec(ctx, "UPDATE tariffs SET effective_to = $1 WHERE id = $2 AND effective_to IS NULL", effectiveTo, tariffID)
	return err
}

func (p *pgTx) Insert(ctx context.Context, t Tariff) error {
	_, err := p.tx.Exec(ctx, `
    INSERT INTO tariffs (id, service_id, price, effective_from, effective_to, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, t.ID, t.ServiceID, t.Price, t.EffectiveFrom, t.EffectiveTo, t.CreatedAt)
	return err
}
