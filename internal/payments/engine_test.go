package payments

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"sitterly_app_echo/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeAgreement() models.Agreement {
	return models.Agreement{
		Status:          models.AgreementStatusAccepted,
		StartingDate:    date(2024, time.January, 1),
		EndingDate:      date(2024, time.December, 1),
		LastPaymentDate: date(2024, time.January, 1),
		MonthlyRate:     100,
		Amount:          BaseAmount,
		PaymentStatus:   models.PaymentStatusNotAvailableYet,
	}
}

func TestReconcileNoOpBeforeCheckpoint(t *testing.T) {
	a := activeAgreement()
	got, err := Reconcile(a, date(2024, time.February, 20))
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if !reflect.DeepEqual(got, a) {
		t.Errorf("expected no-op, got %+v", got)
	}
}

func TestReconcileFreshCheckpoint(t *testing.T) {
	a := activeAgreement()
	got, err := Reconcile(a, date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if got.PaymentStatus != models.PaymentStatusPendingGuardian {
		t.Errorf("PaymentStatus = %q; want %q", got.PaymentStatus, models.PaymentStatusPendingGuardian)
	}
	if want := date(2024, time.March, 1); !got.LastPaymentDate.Equal(want) {
		t.Errorf("LastPaymentDate = %v; want %v", got.LastPaymentDate, want)
	}
	if got.Amount != BaseAmount {
		t.Errorf("Amount = %q; want %q", got.Amount, BaseAmount)
	}
}

func TestReconcileDayOfMonthRollback(t *testing.T) {
	// The schedule's day (5) has not been reached on the 1st, so the latest
	// month must not be credited as paid.
	a := activeAgreement()
	a.LastPaymentDate = date(2024, time.January, 5)
	got, err := Reconcile(a, date(2024, time.March, 1))
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if want := date(2024, time.February, 1); !got.LastPaymentDate.Equal(want) {
		t.Errorf("LastPaymentDate = %v; want %v", got.LastPaymentDate, want)
	}
}

func TestReconcileAccumulatesDebt(t *testing.T) {
	for _, status := range []models.PaymentStatus{
		models.PaymentStatusPendingGuardian,
		models.PaymentStatusPendingBabysitter,
	} {
		t.Run(string(status), func(t *testing.T) {
			a := activeAgreement()
			a.PaymentStatus = status
			a.Amount = "1X"
			got, err := Reconcile(a, date(2024, time.March, 5))
			if err != nil {
				t.Fatalf("Reconcile returned error: %v", err)
			}
			if got.Amount != "2X" {
				t.Errorf("Amount = %q; want %q", got.Amount, "2X")
			}
			if got.PaymentStatus != status {
				t.Errorf("PaymentStatus changed to %q; want %q", got.PaymentStatus, status)
			}
			if want := date(2024, time.February, 1); !got.LastPaymentDate.Equal(want) {
				t.Errorf("LastPaymentDate = %v; want %v", got.LastPaymentDate, want)
			}
		})
	}
}

func TestReconcileFinalCheckpointAtEnd(t *testing.T) {
	a := activeAgreement()
	a.EndingDate = date(2024, time.June, 1)
	a.LastPaymentDate = date(2024, time.May, 1)

	now := date(2024, time.June, 10)
	got, err := Reconcile(a, now)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if got.PaymentStatus != models.PaymentStatusPendingGuardian {
		t.Errorf("PaymentStatus = %q; want %q", got.PaymentStatus, models.PaymentStatusPendingGuardian)
	}
	if want := date(2024, time.June, 1); !got.LastPaymentDate.Equal(want) {
		t.Errorf("LastPaymentDate = %v; want %v", got.LastPaymentDate, want)
	}

	// A second reconcile on the same day must not stack further debt.
	again, err := Reconcile(got, now)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Errorf("second reconcile was not a no-op: %+v", again)
	}
}

func TestReconcileShortAgreementPastEnd(t *testing.T) {
	// An agreement shorter than a full billing period: the day-of-month
	// rollback would land before the previous checkpoint. The final checkpoint
	// must settle forward to the ending date, never move backward.
	a := activeAgreement()
	a.StartingDate = date(2024, time.May, 25)
	a.LastPaymentDate = date(2024, time.May, 25)
	a.EndingDate = date(2024, time.June, 15)

	now := date(2024, time.June, 20)
	got, err := Reconcile(a, now)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if got.LastPaymentDate.Before(a.StartingDate) {
		t.Fatalf("LastPaymentDate = %v; moved before starting date %v", got.LastPaymentDate, a.StartingDate)
	}
	if want := date(2024, time.June, 15); !got.LastPaymentDate.Equal(want) {
		t.Errorf("LastPaymentDate = %v; want %v", got.LastPaymentDate, want)
	}
	if got.PaymentStatus != models.PaymentStatusPendingGuardian {
		t.Errorf("PaymentStatus = %q; want %q", got.PaymentStatus, models.PaymentStatusPendingGuardian)
	}
	if got.Amount != BaseAmount {
		t.Errorf("Amount = %q; want %q", got.Amount, BaseAmount)
	}

	// A second reconcile on the same day must not stack debt on top.
	again, err := Reconcile(got, now)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if !reflect.DeepEqual(again, got) {
		t.Errorf("second reconcile was not a no-op: %+v", again)
	}
}

func TestAdvanceCheckpointNeverMovesBackward(t *testing.T) {
	last := date(2024, time.May, 25)
	got := advanceCheckpoint(last, 1, date(2024, time.June, 20))
	if got.Before(last) {
		t.Errorf("advanceCheckpoint = %v; moved before %v", got, last)
	}
}

func TestReconcileArchivesPastGraceWindow(t *testing.T) {
	a := activeAgreement()
	a.EndingDate = date(2024, time.June, 1)
	a.PaymentStatus = models.PaymentStatusPendingGuardian
	a.Amount = "2X"

	got, err := Reconcile(a, date(2024, time.July, 10))
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if got.Status != models.AgreementStatusHistory {
		t.Fatalf("Status = %q; want %q", got.Status, models.AgreementStatusHistory)
	}

	// Once archived the cycle is frozen, whatever now is.
	later, err := Reconcile(got, date(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if later.PaymentStatus != got.PaymentStatus || later.Amount != got.Amount {
		t.Errorf("frozen agreement changed: %+v", later)
	}
}

func TestReconcileArchivesCompletedAtEnd(t *testing.T) {
	a := activeAgreement()
	a.EndingDate = date(2024, time.June, 1)
	a.PaymentStatus = models.PaymentStatusCompleted

	got, err := Reconcile(a, date(2024, time.June, 2))
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if got.Status != models.AgreementStatusHistory {
		t.Errorf("Status = %q; want %q", got.Status, models.AgreementStatusHistory)
	}
}

func TestReconcileRejectsMissingDates(t *testing.T) {
	a := activeAgreement()
	a.LastPaymentDate = time.Time{}
	got, err := Reconcile(a, date(2024, time.March, 5))
	if !errors.Is(err, ErrInvalidAgreementData) {
		t.Fatalf("err = %v; want ErrInvalidAgreementData", err)
	}
	if !reflect.DeepEqual(got, a) {
		t.Errorf("agreement mutated on error: %+v", got)
	}
}

func TestConfirmRoundTrip(t *testing.T) {
	for _, amount := range []string{"1X", "5X", "120", ""} {
		a := activeAgreement()
		a.PaymentStatus = models.PaymentStatusPendingGuardian
		a.Amount = amount

		mid, err := ConfirmByGuardian(a)
		if err != nil {
			t.Fatalf("ConfirmByGuardian(%q): %v", amount, err)
		}
		if mid.PaymentStatus != models.PaymentStatusPendingBabysitter {
			t.Errorf("PaymentStatus = %q; want %q", mid.PaymentStatus, models.PaymentStatusPendingBabysitter)
		}

		final, err := ConfirmByBabysitter(mid)
		if err != nil {
			t.Fatalf("ConfirmByBabysitter(%q): %v", amount, err)
		}
		if final.PaymentStatus != models.PaymentStatusNotAvailableYet {
			t.Errorf("PaymentStatus = %q; want %q", final.PaymentStatus, models.PaymentStatusNotAvailableYet)
		}
		if final.Amount != BaseAmount {
			t.Errorf("Amount = %q; want %q", final.Amount, BaseAmount)
		}
	}
}

func TestConfirmGuardsPreconditions(t *testing.T) {
	for _, status := range []models.PaymentStatus{
		models.PaymentStatusNotAvailableYet,
		models.PaymentStatusPendingBabysitter,
		models.PaymentStatusCompleted,
	} {
		a := activeAgreement()
		a.PaymentStatus = status
		if _, err := ConfirmByGuardian(a); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("ConfirmByGuardian in %q: err = %v; want ErrInvalidTransition", status, err)
		}
	}
	for _, status := range []models.PaymentStatus{
		models.PaymentStatusNotAvailableYet,
		models.PaymentStatusPendingGuardian,
		models.PaymentStatusCompleted,
	} {
		a := activeAgreement()
		a.PaymentStatus = status
		if _, err := ConfirmByBabysitter(a); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("ConfirmByBabysitter in %q: err = %v; want ErrInvalidTransition", status, err)
		}
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		amount string
		want   int
	}{
		{"1X", 1},
		{"12X", 12},
		{"120", 120},
		{"X", 0},
		{"", 0},
		{"2x extra", 2},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.amount); got != tt.want {
			t.Errorf("Multiplier(%q) = %d; want %d", tt.amount, got, tt.want)
		}
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	got := addMonths(date(2024, time.January, 31), 1)
	if want := date(2024, time.February, 29); !got.Equal(want) {
		t.Errorf("addMonths = %v; want %v", got, want)
	}
}
