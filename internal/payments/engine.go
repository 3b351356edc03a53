// Package payments holds the agreement payment-cycle engine: pure functions
// over an Agreement snapshot and a point in time. Callers fetch the record,
// run it through the engine, and persist the result; the engine keeps no
// state of its own.
package payments

import (
	"errors"
	"fmt"
	"time"

	"sitterly_app_echo/internal/models"
)

var (
	// ErrInvalidAgreementData means a required date field is missing; the
	// agreement must be surfaced as unavailable, never given a guessed state.
	ErrInvalidAgreementData = errors.New("agreement is missing required date fields")

	// ErrInvalidTransition means a party-triggered confirmation was called in
	// a payment status that does not allow it.
	ErrInvalidTransition = errors.New("payment status does not allow this transition")
)

// BaseAmount is the amount an agreement resets to after the babysitter
// accepts a payment: one unpaid period.
const BaseAmount = "1X"

// historyGrace is how long past the ending date an unsettled agreement stays
// visible before it is archived.
const historyGrace = 30 * 24 * time.Hour

// Reconcile advances the agreement's payment cycle for the given time.
// It returns the updated snapshot; the input is never mutated.
func Reconcile(a models.Agreement, now time.Time) (models.Agreement, error) {
	if a.StartingDate.IsZero() || a.LastPaymentDate.IsZero() {
		return a, ErrInvalidAgreementData
	}

	// A history agreement is frozen; nothing advances automatically anymore.
	if a.Status == models.AgreementStatusHistory {
		return a, nil
	}

	settled := a.PaymentStatus == models.PaymentStatusCompleted && !now.Before(a.EndingDate)
	if settled || !now.Before(a.EndingDate.Add(historyGrace)) {
		a.Status = models.AgreementStatusHistory
		return a, nil
	}

	monthsPassed := monthsBetween(a.LastPaymentDate, now)
	if !checkpointCrossed(a, now, monthsPassed) {
		return a, nil
	}

	switch a.PaymentStatus {
	case models.PaymentStatusPendingGuardian, models.PaymentStatusPendingBabysitter:
		// A previous checkpoint is still unresolved: keep the old debt and
		// stack one more period on top of it.
		a.Amount = fmt.Sprintf("%dX", Multiplier(a.Amount)+1)
		a.LastPaymentDate = addMonths(a.LastPaymentDate, 1)
	default:
		// Fresh billing cycle.
		a.PaymentStatus = models.PaymentStatusPendingGuardian
		a.Amount = BaseAmount
		advanced := advanceCheckpoint(a.LastPaymentDate, monthsPassed, now)
		// A final checkpoint settles the cycle up to the ending date, so it
		// cannot fire again for the same now.
		if !now.Before(a.EndingDate) && advanced.Before(a.EndingDate) {
			advanced = a.EndingDate
		}
		a.LastPaymentDate = advanced
	}

	return a, nil
}

// checkpointCrossed reports whether a new billing checkpoint is due. Two whole
// calendar months since the last checkpoint always cross one; reaching the
// ending date forces a final checkpoint, but only while the last checkpoint
// still precedes the ending date, so reconciling twice on the same day after
// the agreement ends stays a no-op.
func checkpointCrossed(a models.Agreement, now time.Time, monthsPassed int) bool {
	if monthsPassed >= 2 {
		return true
	}
	return !now.Before(a.EndingDate) && a.LastPaymentDate.Before(a.EndingDate)
}

// advanceCheckpoint moves the billing checkpoint forward by monthsPassed
// whole months, clamped to now, rolling back one extra month when the
// schedule's day-of-month has not yet been reached, so a partial month is
// never credited as paid. The checkpoint never moves backward: when the
// rollback would land before last (an agreement shorter than a full period),
// last stands.
func advanceCheckpoint(last time.Time, monthsPassed int, now time.Time) time.Time {
	advanced := addMonths(last, monthsPassed)
	dayNotReached := advanced.Day() > now.Day()
	if advanced.After(now) {
		advanced = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, last.Location())
	}
	if dayNotReached {
		advanced = addMonths(advanced, -1)
	}
	if advanced.Before(last) {
		return last
	}
	return advanced
}

// ConfirmByGuardian records that the guardian finished the payment wizard and
// handed confirmation over to the babysitter.
func ConfirmByGuardian(a models.Agreement) (models.Agreement, error) {
	if a.PaymentStatus != models.PaymentStatusPendingGuardian {
		return a, ErrInvalidTransition
	}
	a.PaymentStatus = models.PaymentStatusPendingBabysitter
	return a, nil
}

// ConfirmByBabysitter records the babysitter accepting the payment, clearing
// any accrued multiplier and restarting the waiting period.
func ConfirmByBabysitter(a models.Agreement) (models.Agreement, error) {
	if a.PaymentStatus != models.PaymentStatusPendingBabysitter {
		return a, ErrInvalidTransition
	}
	a.PaymentStatus = models.PaymentStatusNotAvailableYet
	a.Amount = BaseAmount
	return a, nil
}

// Multiplier parses the accrued period count out of an amount string such as
// "2X". An amount without a numeric prefix counts as zero.
func Multiplier(amount string) int {
	n := 0
	seen := false
	for _, r := range amount {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}

// OwedAmount converts the multiplier-tagged amount into money using the
// agreement's per-period rate. A fresh or unparsed amount owes one period.
func OwedAmount(a models.Agreement) float64 {
	k := Multiplier(a.Amount)
	if k < 1 {
		k = 1
	}
	return float64(k) * a.MonthlyRate
}

// monthsBetween counts whole calendar months from a to b, ignoring the day of
// month on both ends.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// addMonths shifts t by the given number of months, clamping the day to the
// end of the target month instead of spilling into the next one.
func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if lastDay := first.AddDate(0, 1, -1).Day(); day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// monthStart truncates t to the first of its month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
