package payments

import (
	"errors"
	"testing"
	"time"

	"sitterly_app_echo/internal/models"
)

func countCurrentDue(entries []LedgerEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsCurrentDue {
			n++
		}
	}
	return n
}

func TestBuildLedgerMarksExactlyOneCurrentDue(t *testing.T) {
	for _, status := range []models.PaymentStatus{
		models.PaymentStatusNotAvailableYet,
		models.PaymentStatusPendingGuardian,
		models.PaymentStatusPendingBabysitter,
	} {
		t.Run(string(status), func(t *testing.T) {
			a := activeAgreement()
			a.PaymentStatus = status
			a.LastPaymentDate = date(2024, time.March, 1)
			entries, err := BuildLedger(a, date(2024, time.March, 5))
			if err != nil {
				t.Fatalf("BuildLedger returned error: %v", err)
			}
			if got := countCurrentDue(entries); got != 1 {
				t.Errorf("current-due entries = %d; want 1", got)
			}
		})
	}

	a := activeAgreement()
	a.PaymentStatus = models.PaymentStatusCompleted
	entries, err := BuildLedger(a, date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("BuildLedger returned error: %v", err)
	}
	if got := countCurrentDue(entries); got != 0 {
		t.Errorf("completed agreement has %d current-due entries; want 0", got)
	}
}

func TestBuildLedgerOrderAndAmounts(t *testing.T) {
	a := activeAgreement()
	a.PaymentStatus = models.PaymentStatusPendingGuardian
	a.LastPaymentDate = date(2024, time.March, 1)
	a.Amount = "2X"

	entries, err := BuildLedger(a, date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("BuildLedger returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d; want 3", len(entries))
	}

	// Latest month first.
	wantLabels := []string{"March 2024", "February 2024", "January 2024"}
	for i, want := range wantLabels {
		if entries[i].MonthLabel != want {
			t.Errorf("entries[%d].MonthLabel = %q; want %q", i, entries[i].MonthLabel, want)
		}
	}

	// The unresolved checkpoint is the month before LastPaymentDate and
	// carries the accrued amount; the rest show the flat rate.
	for _, e := range entries {
		switch {
		case e.MonthLabel == "February 2024":
			if !e.IsCurrentDue {
				t.Errorf("February 2024 not marked current due")
			}
			if e.AmountDue != 200 {
				t.Errorf("current due amount = %v; want 200", e.AmountDue)
			}
		case e.IsCurrentDue:
			t.Errorf("%s unexpectedly marked current due", e.MonthLabel)
		case e.AmountDue != 100:
			t.Errorf("%s amount = %v; want 100", e.MonthLabel, e.AmountDue)
		}
	}
}

func TestBuildLedgerAccruingMonthWhileWaiting(t *testing.T) {
	a := activeAgreement()
	a.LastPaymentDate = date(2024, time.March, 1)

	entries, err := BuildLedger(a, date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("BuildLedger returned error: %v", err)
	}
	if !entries[0].IsCurrentDue || entries[0].MonthLabel != "March 2024" {
		t.Errorf("accruing month = %+v; want current due on March 2024", entries[0])
	}
}

func TestBuildLedgerStopsOneMonthBeforeEnding(t *testing.T) {
	a := activeAgreement()
	a.EndingDate = date(2024, time.April, 1)

	entries, err := BuildLedger(a, date(2024, time.December, 25))
	if err != nil {
		t.Fatalf("BuildLedger returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d; want 3 (January through March)", len(entries))
	}
	if entries[0].MonthLabel != "March 2024" {
		t.Errorf("latest entry = %q; want %q", entries[0].MonthLabel, "March 2024")
	}
}

func TestBuildLedgerAlwaysHasOpeningMonth(t *testing.T) {
	a := activeAgreement()
	entries, err := BuildLedger(a, date(2024, time.January, 10))
	if err != nil {
		t.Fatalf("BuildLedger returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].MonthLabel != "January 2024" {
		t.Errorf("entries = %+v; want single January 2024 row", entries)
	}
}

func TestBuildLedgerRejectsMissingDates(t *testing.T) {
	a := activeAgreement()
	a.StartingDate = time.Time{}
	if _, err := BuildLedger(a, date(2024, time.March, 5)); !errors.Is(err, ErrInvalidAgreementData) {
		t.Errorf("err = %v; want ErrInvalidAgreementData", err)
	}
}
