package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a bookable salon service.
type Service struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	CommissionPct   decimal.Decimal `json:"commissionPct"`
	CategoryID      string          `json:"categoryId"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewService struct {
	Name            string
	DurationMinutes int
	CommissionPct   decimal.Decimal
	CategoryID      string
	Price           decimal.Decimal
	EffectiveFrom   time.Time
}

// ServiceUpdate carries the fields to change; nil fields are left alone.
type ServiceUpdate struct {
	Name            *string
	DurationMinutes *int
	CommissionPct   *decimal.Decimal
	CategoryID      *string
	Price           *decimal.Decimal
	EffectiveFrom   time.Time
}
