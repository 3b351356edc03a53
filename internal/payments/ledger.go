package payments

import (
	"time"

	"sitterly_app_echo/internal/models"
)

// monthLabelLayout matches the period labels stored on vouchers.
const monthLabelLayout = "January 2006"

// LedgerEntry is one monthly line item of an agreement's payment history.
type LedgerEntry struct {
	MonthLabel   string  `json:"month_label"`
	AmountDue    float64 `json:"amount_due"`
	IsCurrentDue bool    `json:"is_current_due"`
}

// CurrentCheckpointMonth returns the billing month the payment cycle is
// currently parked on. Both the dashboard and the ledger use this single
// helper so the two views cannot disagree about which month is active.
//
// While a payment is pending (either party), the active month is the last
// fully billed one, the month before the checkpoint. While waiting for the
// next cycle it is the month currently accruing. A completed agreement has
// no active month.
func CurrentCheckpointMonth(a models.Agreement, now time.Time) (time.Time, bool) {
	switch a.PaymentStatus {
	case models.PaymentStatusCompleted:
		return time.Time{}, false
	case models.PaymentStatusPendingGuardian, models.PaymentStatusPendingBabysitter:
		return monthStart(addMonths(a.LastPaymentDate, -1)), true
	default:
		return monthStart(a.LastPaymentDate), true
	}
}

// BuildLedger produces the month-by-month billing line items for an
// agreement, latest month first. Exactly one entry carries IsCurrentDue
// unless the payment status is completed; that entry shows the full accrued
// amount, every other entry the flat per-period rate.
func BuildLedger(a models.Agreement, now time.Time) ([]LedgerEntry, error) {
	if a.StartingDate.IsZero() || a.LastPaymentDate.IsZero() {
		return nil, ErrInvalidAgreementData
	}

	start := monthStart(a.StartingDate)
	end := monthStart(now)
	if byEnd := monthStart(addMonths(a.EndingDate, -1)); byEnd.Before(end) {
		end = byEnd
	}
	// Always give the dashboard at least the opening month to render.
	if end.Before(start) {
		end = start
	}

	var entries []LedgerEntry
	var months []time.Time
	for m := start; !m.After(end); m = addMonths(m, 1) {
		entries = append(entries, LedgerEntry{
			MonthLabel: m.Format(monthLabelLayout),
			AmountDue:  a.MonthlyRate,
		})
		months = append(months, m)
	}

	if target, ok := CurrentCheckpointMonth(a, now); ok {
		idx := len(entries) - 1
		for i, m := range months {
			if m.Equal(target) {
				idx = i
				break
			}
		}
		entries[idx].IsCurrentDue = true
		entries[idx].AmountDue = OwedAmount(a)
	}

	// Computed chronologically, presented latest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
