package memstore

import (
	"context"
	"sort"
	"time"

	"salon/internal/domain/commission"
	"salon/internal/domain/payroll"
)

type PayrollStore struct {
	s *Store
}

func (p *PayrollStore) ListCommissions(_ context.Context, employeeID string, from, to time.Time) ([]commission.Entry, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	out := make([]commission.Entry, 0)
	for _, e := range p.s.commissions {
		if e.EmployeeID == employeeID && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (p *PayrollStore) ListDiscounts(_ context.Context, employeeID string, start, end time.Time) ([]payroll.Discount, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	out := make([]payroll.Discount, 0)
	for _, d := range p.s.discounts {
		if employeeID != "" && d.EmployeeID != employeeID {
			continue
		}
		if d.Date.Before(start) || d.Date.After(end) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (p *PayrollStore) InsertDiscount(_ context.Context, d payroll.Discount) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.discounts = append(p.s.discounts, d)
	return nil
}
