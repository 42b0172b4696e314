package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrSlotConflict      = errors.New("slot conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrEmployeeInactive  = errors.New("employee is inactive")
)

// SlotConflictError names the appointment already holding the slot.
type SlotConflictError struct {
	AppointmentID string
	Start         Clock
	End           Clock
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict with appointment %s (%s-%s)", e.AppointmentID, e.Start, e.End)
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

type TransitionError struct {
	From Status
	To   Status
	// Action names an operation that does not change status, e.g. "reschedule".
	Action string
}

func (e *TransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("cannot %s appointment in status %s", e.Action, e.From)
	}
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
