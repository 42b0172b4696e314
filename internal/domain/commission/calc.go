package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salon/internal/domain/money"
	"salon/internal/domain/tariff"
)

var hundred = decimal.NewFromInt(100)

// Writer persists entries inside the caller's transaction.
type Writer interface {
	InsertCommission(ctx context.Context, entry Entry) error
}

type Input struct {
	AppointmentID string
	EmployeeID    string
	ServiceID     string
	Tariff        tariff.Tariff
	CommissionPct decimal.Decimal
	ExtraAmount   decimal.Decimal
	PaymentMethod PaymentMethod
	At            time.Time
}

func ValidateExtra(extra decimal.Decimal) error {
	if extra.IsNegative() {
		return ErrInvalidAmount
	}
	if !money.FitsScale(extra) {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, money.Scale)
	}
	return nil
}

// Compute returns the gross service value and the commission on it, rounded
// to cents.
func Compute(price, extra, pct decimal.Decimal) (gross, amount decimal.Decimal, err error) {
	if err := ValidateExtra(extra); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) || !money.FitsScale(pct) {
		return decimal.Zero, decimal.Zero, ErrInvalidPercentage
	}
	gross = price.Add(extra)
	amount = gross.Mul(pct).Div(hundred).Round(money.Scale)
	return gross, amount, nil
}

// Calculator is the only writer of commission entries.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Record(ctx context.Context, w Writer, in Input) (Entry, error) {
	gross, amount, err := Compute(in.Tariff.Price, in.ExtraAmount, in.CommissionPct)
	if err != nil {
		return Entry{}, err
	}
	method := in.PaymentMethod
	if method == "" {
		method = PaymentCash
	}
	entry := Entry{
		ID:            uuid.NewString(),
		AppointmentID: in.AppointmentID,
		EmployeeID:    in.EmployeeID,
		ServiceID:     in.ServiceID,
		TariffID:      in.Tariff.ID,
		TariffPrice:   in.Tariff.Price,
		ExtraAmount:   in.ExtraAmount,
		GrossValue:    gross,
		CommissionPct: in.CommissionPct,
		Amount:        amount,
		PaymentMethod: method,
		CreatedAt:     in.At.UTC(),
	}
	if err := w.InsertCommission(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}
