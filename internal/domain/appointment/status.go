package appointment

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statusAliases = map[string]Status{
	"pending":    StatusPending,
	"pendiente":  StatusPending,
	"confirmed":  StatusConfirmed,
	"confirmada": StatusConfirmed,
	"confirmado": StatusConfirmed,
	"completed":  StatusCompleted,
	"completada": StatusCompleted,
	"completado": StatusCompleted,
	"finalizada": StatusCompleted,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"cancelada":  StatusCancelled,
	"cancelado":  StatusCancelled,
}

func ParseStatus(raw string) (Status, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
	return status, nil
}

// HoldsSlot reports whether an appointment in this status blocks its time slot.
func (s Status) HoldsSlot() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Reschedulable reports whether the slot of an appointment may still move.
func (s Status) Reschedulable() bool {
	return s == StatusPending || s == StatusConfirmed
}
