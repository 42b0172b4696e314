package metrics

import (
	"net/http"
	"testing"
	"time"
)

func TestSnapshotCountsRequestsAndOutcomes(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, 10*time.Millisecond)
	c.Record(http.StatusInternalServerError, 30*time.Millisecond)
	c.Record(http.StatusTooManyRequests, 0)
	c.Booked()
	c.Booked()
	c.SlotConflict()
	c.Completed()
	c.NoTariff()

	snap := c.Snapshot()
	checks := map[string]uint64{
		"requestsTotal":           3,
		"errorsTotal":             1,
		"rateLimitedTotal":        1,
		"totalDurationMs":         40,
		"bookingsTotal":           2,
		"slotConflictsTotal":      1,
		"completionsTotal":        1,
		"invalidTransitionsTotal": 0,
		"noTariffTotal":           1,
	}
	for key, want := range checks {
		if got := snap[key].(uint64); got != want {
			t.Fatalf("%s: expected %d, got %d", key, want, got)
		}
	}
	if avg := snap["avgDurationMs"].(float64); avg < 13.3 || avg > 13.4 {
		t.Fatalf("unexpected average %v", avg)
	}
}
