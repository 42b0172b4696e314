// Package memstore keeps every engine table in process memory. Writes made
// under an employee or service lock are staged and applied only when the
// callback succeeds, so callers get the same all-or-nothing behaviour as
// the Postgres stores.
package memstore

import (
	"sync"

	"salon/internal/domain/appointment"
	"salon/internal/domain/audit"
	"salon/internal/domain/catalog"
	"salon/internal/domain/commission"
	"salon/internal/domain/payroll"
	"salon/internal/domain/tariff"
	"salon/internal/platform/keylock"
)

type Store struct {
	mu    sync.RWMutex
	locks *keylock.Locker

	services     map[string]catalog.Service
	employees    map[string]catalog.Employee
	clients      map[string]catalog.Client
	tariffs      map[string][]tariff.Tariff
	appointments map[string]appointment.Appointment
	commissions  map[string]commission.Entry
	discounts    []payroll.Discount
	events       []audit.Event
}

func New() *Store {
	return &Store{
		locks:        keylock.New(),
		services:     make(map[string]catalog.Service),
		employees:    make(map[string]catalog.Employee),
		clients:      make(map[string]catalog.Client),
		tariffs:      make(map[string][]tariff.Tariff),
		appointments: make(map[string]appointment.Appointment),
		commissions:  make(map[string]commission.Entry),
	}
}

func (s *Store) Catalog() *CatalogStore {
	return &CatalogStore{s: s}
}

func (s *Store) Tariffs() *TariffStore {
	return &TariffStore{s: s}
}

func (s *Store) Appointments() *AppointmentStore {
	return &AppointmentStore{s: s}
}

func (s *Store) Payroll() *PayrollStore {
	return &PayrollStore{s: s}
}

func (s *Store) Audit() *AuditStore {
	return &AuditStore{s: s}
}

var (
	_ catalog.Store     = (*CatalogStore)(nil)
	_ tariff.Store      = (*TariffStore)(nil)
	_ appointment.Store = (*AppointmentStore)(nil)
	_ payroll.Store     = (*PayrollStore)(nil)
	_ audit.Store       = (*AuditStore)(nil)
)
