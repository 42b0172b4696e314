package payroll

import "time"

// Period is an inclusive range of calendar days evaluated in a location.
type Period struct {
	Start time.Time
	End   time.Time
	loc   *time.Location
}

// NewPeriod truncates both bounds to calendar dates. A nil location means UTC.
func NewPeriod(start, end time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	p := Period{Start: dateOf(start), End: dateOf(end), loc: loc}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidRange
	}
	return p, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Window is the half-open instant range [start 00:00, day after end 00:00) in the period location.
func (p Period) Window() (time.Time, time.Time) {
	from := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, p.loc)
	to := time.Date(p.End.Year(), p.End.Month(), p.End.Day()+1, 0, 0, 0, 0, p.loc)
	return from, to
}

func (p Period) ContainsInstant(t time.Time) bool {
	from, to := p.Window()
	return !t.Before(from) && t.Before(to)
}

func (p Period) ContainsDate(d time.Time) bool {
	day := dateOf(d)
	return !day.Before(p.Start) && !day.After(p.End)
}
