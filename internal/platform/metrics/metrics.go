package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-local counters for HTTP traffic and engine outcomes.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	bookings           uint64
	slotConflicts      uint64
	completions        uint64
	invalidTransitions uint64
	missingTariffs     uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Booked()            { atomic.AddUint64(&c.bookings, 1) }
func (c *Collector) SlotConflict()      { atomic.AddUint64(&c.slotConflicts, 1) }
func (c *Collector) Completed()         { atomic.AddUint64(&c.completions, 1) }
func (c *Collector) InvalidTransition() { atomic.AddUint64(&c.invalidTransitions, 1) }
func (c *Collector) NoTariff()          { atomic.AddUint64(&c.missingTariffs, 1) }

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":           total,
		"errorsTotal":             errs,
		"rateLimitedTotal":        limited,
		"avgDurationMs":           avg,
		"totalDurationMs":         totalMs,
		"bookingsTotal":           atomic.LoadUint64(&c.bookings),
		"slotConflictsTotal":      atomic.LoadUint64(&c.slotConflicts),
		"completionsTotal":        atomic.LoadUint64(&c.completions),
		"invalidTransitionsTotal": atomic.LoadUint64(&c.invalidTransitions),
		"noTariffTotal":           atomic.LoadUint64(&c.missingTariffs),
	}
}
