package memstore

import (
	"context"
	"time"

	"salon/internal/domain/errs"
	"salon/internal/domain/tariff"
)

type TariffStore struct {
	s *Store
}

type tariffTx struct {
	serviceID string
	rows      []tariff.Tariff
}

func (t *TariffStore) WithServiceLock(_ context.Context, serviceID string, fn func(tariff.Tx) error) error {
	unlock := t.s.locks.Lock("tariff:" + serviceID)
	defer unlock()

	t.s.mu.RLock()
	rows := append([]tariff.Tariff(nil), t.s.tariffs[serviceID]...)
	t.s.mu.RUnlock()

	tx := &tariffTx{serviceID: serviceID, rows: rows}
	if err := fn(tx); err != nil {
		return err
	}

	t.s.mu.Lock()
	t.s.tariffs[serviceID] = tx.rows
	t.s.mu.Unlock()
	return nil
}

func (tx *tariffTx) Open(_ context.Context, serviceID string) (tariff.Tariff, bool, error) {
	for i := len(tx.rows) - 1; i >= 0; i-- {
		if tx.rows[i].IsOpen() {
			return tx.rows[i], true, nil
		}
	}
	return tariff.Tariff{}, false, nil
}

func (tx *tariffTx) Close(_ context.Context, tariffID string, effectiveTo time.Time) error {
	for i := range tx.rows {
		if tx.rows[i].ID == tariffID {
			to := effectiveTo
			tx.rows[i].EffectiveTo = &to
			return nil
		}
	}
	return errs.ErrNotFound
}

func (tx *tariffTx) Insert(_ context.Context, row tariff.Tariff) error {
	tx.rows = append(tx.rows, row)
	return nil
}

func (t *TariffStore) History(_ context.Context, serviceID string) ([]tariff.Tariff, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return append(make([]tariff.Tariff, 0, len(t.s.tariffs[serviceID])), t.s.tariffs[serviceID]...), nil
}

func (t *TariffStore) At(_ context.Context, serviceID string, ts time.Time) (tariff.Tariff, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, row := range t.s.tariffs[serviceID] {
		if row.Contains(ts) {
			return row, nil
		}
	}
	return tariff.Tariff{}, errs.ErrNotFound
}
