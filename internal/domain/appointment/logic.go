package appointment

import (
	"time"

	"salon/internal/domain/errs"
)

const (
	SlotMinutes   = 15
	minutesPerDay = 24 * 60
)

func ValidateDuration(minutes int) error {
	if minutes <= 0 || minutes%SlotMinutes != 0 {
		return errs.Invalid("durationMinutes", "must be a positive multiple of 15")
	}
	return nil
}

// ValidateSlot checks that [start, start+duration) stays inside one day.
func ValidateSlot(start Clock, duration int) error {
	if start < 0 || start >= minutesPerDay {
		return errs.Invalid("startTime", "must be between 00:00 and 23:59")
	}
	if int(start)+duration > minutesPerDay {
		return errs.Invalid("durationMinutes", "must end before midnight")
	}
	return nil
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching
// boundaries do not overlap.
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && s2 < e1
}

// FindConflict returns the first appointment in existing that holds a slot
// intersecting candidate. The candidate itself is ignored.
func FindConflict(candidate Appointment, existing []Appointment) (Appointment, bool) {
	for _, other := range existing {
		if other.ID == candidate.ID || other.EmployeeID != candidate.EmployeeID {
			continue
		}
		if !other.Status.HoldsSlot() || !SameDay(other.Date, candidate.Date) {
			continue
		}
		if Overlaps(candidate.Start, candidate.End(), other.Start, other.End()) {
			return other, true
		}
	}
	return Appointment{}, false
}

// NormalizeDate drops the time of day, keeping the calendar date as UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameDay(a, b time.Time) bool {
	return NormalizeDate(a).Equal(NormalizeDate(b))
}
