package commission

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "cash", "efectivo":
		return PaymentCash, nil
	case "card", "tarjeta", "debit", "credit":
		return PaymentCard, nil
	case "transfer", "transferencia", "bank_transfer":
		return PaymentTransfer, nil
	}
	return "", fmt.Errorf("unknown payment method %q", raw)
}

// Entry is the commission earned for one completed appointment. Price and
// percentage are snapshots taken at completion.
type Entry struct {
	ID            string          `json:"id"`
	AppointmentID string          `json:"appointmentId"`
	EmployeeID    string          `json:"employeeId"`
	ServiceID     string          `json:"serviceId"`
	TariffID      string          `json:"tariffId"`
	TariffPrice   decimal.Decimal `json:"tariffPrice"`
	ExtraAmount   decimal.Decimal `json:"extraAmount"`
	GrossValue    decimal.Decimal `json:"grossValue"`
	CommissionPct decimal.Decimal `json:"commissionPct"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}
