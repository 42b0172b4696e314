package appointment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"salon/internal/domain/commission"
)

// Clock is a time of day in minutes after midnight.
type Clock int

func ParseClock(raw string) (Clock, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", raw)
	}
	return Clock(parsed.Hour()*60 + parsed.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Appointment struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId"`
	EmployeeID      string     `json:"employeeId"`
	ServiceID       string     `json:"serviceId"`
	Date            time.Time  `json:"date"`
	Start           Clock      `json:"startTime"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func (a Appointment) End() Clock {
	return a.Start + Clock(a.DurationMinutes)
}

type BookInput struct {
	ClientID   string
	EmployeeID string
	ServiceID  string
	Date       time.Time
	Start      Clock
	// DurationMinutes falls back to the service duration when zero.
	DurationMinutes int
}

type RescheduleInput struct {
	Date  time.Time
	Start Clock
	// DurationMinutes keeps the current duration when zero.
	DurationMinutes int
}

type CompleteInput struct {
	ExtraAmount   decimal.Decimal
	PaymentMethod commission.PaymentMethod
}

type Completion struct {
	Appointment Appointment      `json:"appointment"`
	Commission  commission.Entry `json:"commission"`
}

type Filter struct {
	EmployeeID string
	ClientID   string
	Date       *time.Time
	Status     Status
}
