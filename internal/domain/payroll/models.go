package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"salon/internal/domain/commission"
)

type Discount struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employeeId"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type DiscountInput struct {
	EmployeeID  string          `json:"employeeId"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Date        time.Time       `json:"date"`
}

// Statement is derived on every request and never stored.
type Statement struct {
	EmployeeID       string             `json:"employeeId"`
	PeriodStart      time.Time          `json:"periodStart"`
	PeriodEnd        time.Time          `json:"periodEnd"`
	Commissions      []commission.Entry `json:"commissions"`
	Discounts        []Discount         `json:"discounts"`
	TotalCommissions decimal.Decimal    `json:"totalCommissions"`
	TotalDiscounts   decimal.Decimal    `json:"totalDiscounts"`
	Total            decimal.Decimal    `json:"total"`
}
