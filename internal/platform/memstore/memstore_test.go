package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salon/internal/domain/appointment"
	"salon/internal/domain/commission"
	"salon/internal/domain/errs"
	"salon/internal/domain/tariff"
)

func TestAppointmentTxDiscardsWritesOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	appts := s.Appointments()
	boom := errors.New("boom")

	err := appts.WithEmployeeLock(ctx, "e1", func(tx appointment.Tx) error {
		if err := tx.Insert(ctx, appointment.Appointment{ID: "a1", EmployeeID: "e1"}); err != nil {
			return err
		}
		if err := tx.InsertCommission(ctx, commission.Entry{ID: "c1", AppointmentID: "a1", EmployeeID: "e1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if _, err := appts.Get(ctx, "a1"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected staged appointment to be discarded, got %v", err)
	}
	if _, ok := appts.CommissionFor("a1"); ok {
		t.Fatal("expected staged commission to be discarded")
	}
}

func TestAppointmentTxSeesOwnWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	err := s.Appointments().WithEmployeeLock(ctx, "e1", func(tx appointment.Tx) error {
		if err := tx.Insert(ctx, appointment.Appointment{ID: "a1", EmployeeID: "e1", Date: day}); err != nil {
			return err
		}
		list, err := tx.ListForEmployeeDay(ctx, "e1", day)
		if err != nil {
			return err
		}
		if len(list) != 1 {
			t.Fatalf("expected staged row in day listing, got %d", len(list))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if _, err := s.Appointments().Get(ctx, "a1"); err != nil {
		t.Fatalf("expected committed row: %v", err)
	}
}

func TestCommissionIsRecordedOncePerAppointment(t *testing.T) {
	s := New()
	ctx := context.Background()
	write := func() error {
		return s.Appointments().WithEmployeeLock(ctx, "e1", func(tx appointment.Tx) error {
			return tx.InsertCommission(ctx, commission.Entry{ID: "c", AppointmentID: "a1", EmployeeID: "e1"})
		})
	}
	if err := write(); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := write(); !errors.Is(err, commission.ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
	}
}

func TestTariffTxDiscardsWritesOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.Tariffs().WithServiceLock(ctx, "svc", func(tx tariff.Tx) error {
		if err := tx.Insert(ctx, tariff.Tariff{ID: "t1", ServiceID: "svc", Price: decimal.NewFromInt(1)}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	history, _ := s.Tariffs().History(ctx, "svc")
	if len(history) != 0 {
		t.Fatalf("expected no tariffs, got %d", len(history))
	}
}
