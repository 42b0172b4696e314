package tariff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salon/internal/domain/errs"
	"salon/internal/domain/tariff"
	"salon/internal/platform/memstore"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newLedger() *tariff.Ledger {
	return tariff.NewLedger(memstore.New().Tariffs())
}

func TestPriceAtFollowsEffectiveDates(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	if _, err := ledger.SetPrice(ctx, "corte", decimal.NewFromInt(20), date(2024, 1, 1)); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if _, err := ledger.SetPrice(ctx, "corte", decimal.NewFromInt(25), date(2024, 3, 1)); err != nil {
		t.Fatalf("set price: %v", err)
	}

	cases := []struct {
		at   time.Time
		want int64
	}{
		{date(2024, 2, 15), 20},
		{date(2024, 3, 1).Add(-time.Nanosecond), 20},
		{date(2024, 3, 1), 25},
		{date(2024, 3, 2), 25},
		{date(2030, 1, 1), 25},
	}
	for _, tc := range cases {
		got, err := ledger.PriceAt(ctx, "corte", tc.at)
		if err != nil {
			t.Fatalf("price at %s: %v", tc.at, err)
		}
		if !got.Price.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("price at %s: expected %d, got %s", tc.at, tc.want, got.Price)
		}
	}
}

func TestHistoryIsContiguous(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	if _, err := ledger.SetPrice(ctx, "tinte", decimal.NewFromInt(40), date(2024, 1, 1)); err != nil {
		t.Fatalf("initial price: %v", err)
	}
	changes := []time.Time{date(2024, 2, 1), date(2024, 4, 15), date(2024, 4, 16)}
	for i, from := range changes {
		if _, err := ledger.SetPrice(ctx, "tinte", decimal.NewFromInt(int64(41+i)), from); err != nil {
			t.Fatalf("set price %d: %v", i, err)
		}
	}

	history, err := ledger.History(ctx, "tinte")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != len(changes)+1 {
		t.Fatalf("expected %d tariffs, got %d", len(changes)+1, len(history))
	}
	open := 0
	for i, row := range history {
		if row.IsOpen() {
			open++
			continue
		}
		if !row.EffectiveTo.Equal(history[i+1].EffectiveFrom) {
			t.Fatalf("gap between tariff %d and %d", i, i+1)
		}
	}
	if open != 1 || !history[len(history)-1].IsOpen() {
		t.Fatalf("expected exactly one open tariff at the end, got %d", open)
	}

	current, err := ledger.Current(ctx, "tinte")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !current.Price.Equal(decimal.NewFromInt(43)) {
		t.Fatalf("expected current price 43, got %s", current.Price)
	}
}

func TestSetPriceRejectsOutOfOrder(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()
	if _, err := ledger.SetPrice(ctx, "corte", decimal.NewFromInt(20), date(2024, 3, 1)); err != nil {
		t.Fatalf("set price: %v", err)
	}
	_, err := ledger.SetPrice(ctx, "corte", decimal.NewFromInt(18), date(2024, 2, 1))
	if !errors.Is(err, tariff.ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
	history, _ := ledger.History(ctx, "corte")
	if len(history) != 1 || !history[0].IsOpen() {
		t.Fatalf("rejected change must leave history untouched, got %+v", history)
	}
}

func TestSetPriceValidation(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	if _, err := ledger.SetPrice(ctx, "corte", decimal.NewFromInt(-1), date(2024, 1, 1)); !errors.Is(err, tariff.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := ledger.SetPrice(ctx, "", decimal.NewFromInt(1), date(2024, 1, 1)); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ledger.SetPrice(ctx, "corte", decimal.Zero, date(2024, 1, 1)); err != nil {
		t.Fatalf("zero price should be accepted: %v", err)
	}
}

func TestPriceAtBeforeFirstTariff(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()
	if _, err := ledger.PriceAt(ctx, "corte", date(2024, 1, 1)); !errors.Is(err, tariff.ErrNoTariff) {
		t.Fatalf("expected ErrNoTariff for unknown service, got %v", err)
	}
	if _, err := ledger.SetPrice(ctx, "corte", decimal.NewFromInt(20), date(2024, 1, 1)); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if _, err := ledger.PriceAt(ctx, "corte", date(2023, 12, 31)); !errors.Is(err, tariff.ErrNoTariff) {
		t.Fatalf("expected ErrNoTariff before first tariff, got %v", err)
	}
}

func TestSetPriceKeepsCentPrecision(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	_, err := ledger.SetPrice(ctx, "corte", decimal.RequireFromString("10.005"), date(2024, 1, 1))
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for sub-cent price, got %v", err)
	}
	if history, _ := ledger.History(ctx, "corte"); len(history) != 0 {
		t.Fatalf("rejected price must not be recorded, got %+v", history)
	}

	opened, err := ledger.SetPrice(ctx, "corte", decimal.RequireFromString("10.500"), date(2024, 1, 1))
	if err != nil {
		t.Fatalf("set price: %v", err)
	}
	at, err := ledger.PriceAt(ctx, "corte", date(2024, 1, 2))
	if err != nil {
		t.Fatalf("price at: %v", err)
	}
	if opened.Price.String() != "10.5" || at.Price.String() != opened.Price.String() {
		t.Fatalf("returned %s and stored %s must match at cent scale", opened.Price, at.Price)
	}
}
