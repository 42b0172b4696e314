package tariff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tariff is the price of a service over [EffectiveFrom, EffectiveTo). A nil
// EffectiveTo marks the open tariff.
type Tariff struct {
	ID            string          `json:"id"`
	ServiceID     string          `json:"serviceId"`
	Price         decimal.Decimal `json:"price"`
	EffectiveFrom time.Time       `json:"effectiveFrom"`
	EffectiveTo   *time.Time      `json:"effectiveTo"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (t Tariff) IsOpen() bool {
	return t.EffectiveTo == nil
}

func (t Tariff) Contains(ts time.Time) bool {
	if ts.Before(t.EffectiveFrom) {
		return false
	}
	return t.EffectiveTo == nil || ts.Before(*t.EffectiveTo)
}
