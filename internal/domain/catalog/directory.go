package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salon/internal/domain/errs"
	"salon/internal/domain/money"
	"salon/internal/domain/tariff"
)

const slotMinutes = 15

var hundred = decimal.NewFromInt(100)

type PriceSetter interface {
	SetPrice(ctx context.Context, serviceID string, price decimal.Decimal, effectiveFrom time.Time) (tariff.Tariff, error)
}

// Unit runs fn with a service store and a price ledger whose writes commit
// or roll back together.
type Unit func(ctx context.Context, fn func(Store, PriceSetter) error) error

// Directory owns employees, services and clients. The engine only reads
// from it; the price of a service lives in the tariff ledger.
type Directory struct {
	store  Store
	prices PriceSetter
	unit   Unit
	now    func() time.Time
}

type Option func(*Directory)

// WithUnit makes service writes and their price changes atomic. Without it
// both go straight to the directory's store and ledger.
func WithUnit(unit Unit) Option {
	return func(d *Directory) {
		if unit != nil {
			d.unit = unit
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDirectory(store Store, prices PriceSetter, opts ...Option) *Directory {
	d := &Directory{store: store, prices: prices, now: time.Now}
	d.unit = func(ctx context.Context, fn func(Store, PriceSetter) error) error {
		return fn(d.store, d.prices)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func validateDuration(minutes int) error {
	if minutes <= 0 || minutes%slotMinutes != 0 {
		return errs.Invalid("durationMinutes", "must be a positive multiple of 15")
	}
	return nil
}

func validatePct(pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, errs.Invalid("commissionPct", "must be between 0 and 100")
	}
	return money.CheckScale("commissionPct", pct)
}

func (d *Directory) CreateService(ctx context.Context, in NewService) (Service, tariff.Tariff, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Service{}, tariff.Tariff{}, errs.Invalid("name", "is required")
	}
	if err := validateDuration(in.DurationMinutes); err != nil {
		return Service{}, tariff.Tariff{}, err
	}
	pct, err := validatePct(in.CommissionPct)
	if err != nil {
		return Service{}, tariff.Tariff{}, err
	}
	if in.Price.IsNegative() {
		return Service{}, tariff.Tariff{}, tariff.ErrInvalidPrice
	}
	if _, err := money.CheckScale("price", in.Price); err != nil {
		return Service{}, tariff.Tariff{}, err
	}

	now := d.now().UTC()
	effectiveFrom := in.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = now
	}
	svc := Service{
		ID:              uuid.NewString(),
		Name:            name,
		DurationMinutes: in.DurationMinutes,
		CommissionPct:   pct,
		CategoryID:      strings.TrimSpace(in.CategoryID),
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var opened tariff.Tariff
	err = d.unit(ctx, func(store Store, prices PriceSetter) error {
		if err := store.InsertService(ctx, svc); err != nil {
			return err
		}
		t, err := prices.SetPrice(ctx, svc.ID, in.Price, effectiveFrom)
		if err != nil {
			return err
		}
		opened = t
		return nil
	})
	if err != nil {
		return Service{}, tariff.Tariff{}, err
	}
	return svc, opened, nil
}

// UpdateService edits an active service. A price change and the service row
// are written in one unit, so a rejected price leaves the service unchanged.
func (d *Directory) UpdateService(ctx context.Context, id string, in ServiceUpdate) (Service, *tariff.Tariff, error) {
	svc, err := d.store.GetService(ctx, id)
	if err != nil {
		return Service{}, nil, err
	}
	if !svc.Status.IsActive() {
		return Service{}, nil, ErrServiceInactive
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Service{}, nil, errs.Invalid("name", "is required")
		}
		svc.Name = name
	}
	if in.DurationMinutes != nil {
		if err := validateDuration(*in.DurationMinutes); err != nil {
			return Service{}, nil, err
		}
		svc.DurationMinutes = *in.DurationMinutes
	}
	if in.CommissionPct != nil {
		pct, err := validatePct(*in.CommissionPct)
		if err != nil {
			return Service{}, nil, err
		}
		svc.CommissionPct = pct
	}
	if in.CategoryID != nil {
		svc.CategoryID = strings.TrimSpace(*in.CategoryID)
	}

	svc.UpdatedAt = d.now().UTC()
	var opened *tariff.Tariff
	err = d.unit(ctx, func(store Store, prices PriceSetter) error {
		if in.Price != nil {
			effectiveFrom := in.EffectiveFrom
			if effectiveFrom.IsZero() {
				effectiveFrom = d.now()
			}
			t, err := prices.SetPrice(ctx, svc.ID, *in.Price, effectiveFrom)
			if err != nil {
				return err
			}
			opened = &t
		}
		return store.UpdateService(ctx, svc)
	})
	if err != nil {
		return Service{}, nil, err
	}
	return svc, opened, nil
}

// SetServiceStatus is the only change allowed on an inactive service.
func (d *Directory) SetServiceStatus(ctx context.Context, id string, status Status) (Service, error) {
	svc, err := d.store.GetService(ctx, id)
	if err != nil {
		return Service{}, err
	}
	svc.Status = status
	svc.UpdatedAt = d.now().UTC()
	if err := d.store.UpdateService(ctx, svc); err != nil {
		return Service{}, err
	}
	return svc, nil
}

func (d *Directory) GetService(ctx context.Context, id string) (Service, error) {
	return d.store.GetService(ctx, id)
}

func (d *Directory) ListServices(ctx context.Context) ([]Service, error) {
	return d.store.ListServices(ctx)
}

func (d *Directory) CreateEmployee(ctx context.Context, name string) (Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Employee{}, errs.Invalid("name", "is required")
	}
	emp := Employee{ID: uuid.NewString(), Name: name, Status: StatusActive, CreatedAt: d.now().UTC()}
	if err := d.store.InsertEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (d *Directory) SetEmployeeStatus(ctx context.Context, id string, status Status) (Employee, error) {
	emp, err := d.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	emp.Status = status
	if err := d.store.UpdateEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (d *Directory) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return d.store.GetEmployee(ctx, id)
}

func (d *Directory) ListEmployees(ctx context.Context) ([]Employee, error) {
	return d.store.ListEmployees(ctx)
}

func (d *Directory) CreateClient(ctx context.Context, name, phone, email string) (Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Client{}, errs.Invalid("name", "is required")
	}
	client := Client{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Status:    StatusActive,
		CreatedAt: d.now().UTC(),
	}
	if err := d.store.InsertClient(ctx, client); err != nil {
		return Client{}, err
	}
	return client, nil
}

func (d *Directory) GetClient(ctx context.Context, id string) (Client, error) {
	return d.store.GetClient(ctx, id)
}

func (d *Directory) ListClients(ctx context.Context) ([]Client, error) {
	return d.store.ListClients(ctx)
}
