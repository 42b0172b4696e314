package tariff

import (
	"context"
	"time"
)

type Store interface {
	// WithServiceLock runs fn in one transaction holding the service's write lock.
	WithServiceLock(ctx context.Context, serviceID string, fn func(Tx) error) error
	History(ctx context.Context, serviceID string) ([]Tariff, error)
	// At returns errs.ErrNotFound when no tariff covers ts.
	At(ctx context.Context, serviceID string, ts time.Time) (Tariff, error)
}

type Tx interface {
	Open(ctx context.Context, serviceID string) (Tariff, bool, error)
	Close(ctx context.Context, tariffID string, effectiveTo time.Time) error
	Insert(ctx context.Context, t Tariff) error
}
