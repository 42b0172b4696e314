package tariff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salon/internal/domain/errs"
	"salon/internal/domain/money"
)

type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// SetPrice closes the open tariff at effectiveFrom and opens a new one.
func (l *Ledger) SetPrice(ctx context.Context, serviceID string, price decimal.Decimal, effectiveFrom time.Time) (Tariff, error) {
	if strings.TrimSpace(serviceID) == "" {
		return Tariff{}, errs.Invalid("serviceId", "is required")
	}
	if price.IsNegative() {
		return Tariff{}, ErrInvalidPrice
	}
	price, err := money.CheckScale("price", price)
	if err != nil {
		return Tariff{}, err
	}
	if effectiveFrom.IsZero() {
		return Tariff{}, errs.Invalid("effectiveFrom", "is required")
	}
	effectiveFrom = effectiveFrom.UTC()

	var created Tariff
	err = l.store.WithServiceLock(ctx, serviceID, func(tx Tx) error {
		open, ok, err := tx.Open(ctx, serviceID)
		if err != nil {
			return err
		}
		if ok {
			if effectiveFrom.Before(open.EffectiveFrom) {
				return fmt.Errorf("%w: %s is before %s", ErrOutOfOrder,
					effectiveFrom.Format(time.RFC3339), open.EffectiveFrom.Format(time.RFC3339))
			}
			if err := tx.Close(ctx, open.ID, effectiveFrom); err != nil {
				return err
			}
		}
		created = Tariff{
			ID:            uuid.NewString(),
			ServiceID:     serviceID,
			Price:         price,
			EffectiveFrom: effectiveFrom,
			CreatedAt:     l.now().UTC(),
		}
		return tx.Insert(ctx, created)
	})
	if err != nil {
		return Tariff{}, err
	}
	return created, nil
}

func (l *Ledger) PriceAt(ctx context.Context, serviceID string, ts time.Time) (Tariff, error) {
	t, err := l.store.At(ctx, serviceID, ts.UTC())
	if errors.Is(err, errs.ErrNotFound) {
		return Tariff{}, fmt.Errorf("%w: service %s at %s", ErrNoTariff, serviceID, ts.UTC().Format(time.RFC3339))
	}
	return t, err
}

// History lists every tariff of the service, oldest first.
func (l *Ledger) History(ctx context.Context, serviceID string) ([]Tariff, error) {
	return l.store.History(ctx, serviceID)
}

func (l *Ledger) Current(ctx context.Context, serviceID string) (Tariff, error) {
	history, err := l.store.History(ctx, serviceID)
	if err != nil {
		return Tariff{}, err
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsOpen() {
			return history[i], nil
		}
	}
	return Tariff{}, fmt.Errorf("%w: service %s has no open tariff", ErrNoTariff, serviceID)
}
