package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/payments"
)

// ReconcileAgreementsTaskDef advances the payment cycle of every active
// agreement. The dashboard reconciles on load too; this task covers the
// periods nobody logs in, so reminders still go out on time.
type ReconcileAgreementsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *ReconcileAgreementsTaskDef) TaskID() string {
	return "reconcile_agreements"
}

// CreateTask builds the recurring ScheduledTask record for this task
func (t *ReconcileAgreementsTaskDef) CreateTask(due time.Time, recurringInterval string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, &recurringInterval, models.ScheduledTaskTypeRecurring, 1)
}

// HandleExecution walks all non-archived agreements through the engine
func (t *ReconcileAgreementsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var agreements []models.Agreement
	if err := db.Preload("Sender").Preload("Recipient").
		Where("status <> ?", models.AgreementStatusHistory).
		Find(&agreements).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch agreements: %w", err)
	}

	now := time.Now()
	advanced := 0
	archived := 0
	invalid := 0
	remindersQueued := 0

	for _, a := range agreements {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		updated, err := payments.Reconcile(a, now)
		if err != nil {
			invalid++
			log.Printf("Skipping agreement %s: %v", a.UUID, err)
			continue
		}

		changed := updated.Status != a.Status ||
			updated.PaymentStatus != a.PaymentStatus ||
			updated.Amount != a.Amount ||
			!updated.LastPaymentDate.Equal(a.LastPaymentDate)
		if !changed {
			continue
		}

		if err := db.Save(&updated).Error; err != nil {
			log.Printf("Failed to save agreement %s: %v", a.UUID, err)
			continue
		}
		advanced++
		if updated.Status == models.AgreementStatusHistory {
			archived++
		}

		// A cycle that just entered "pending guardian" gets a reminder.
		if a.PaymentStatus != models.PaymentStatusPendingGuardian &&
			updated.PaymentStatus == models.PaymentStatusPendingGuardian {
			if queueReminder(db, updated, now) {
				remindersQueued++
			}
		}
	}

	return map[string]interface{}{
		"status":    "success",
		"total":     len(agreements),
		"advanced":  advanced,
		"archived":  archived,
		"invalid":   invalid,
		"reminders": remindersQueued,
	}, nil
}

func queueReminder(db *gorm.DB, a models.Agreement, now time.Time) bool {
	guardian := a.Sender
	if guardian.Role != models.UserRoleGuardian {
		guardian = a.Recipient
	}
	if guardian.Email == "" {
		log.Printf("No guardian email for agreement %s, skipping reminder", a.UUID)
		return false
	}

	month := ""
	if m, ok := payments.CurrentCheckpointMonth(a, now); ok {
		month = m.Format("January 2006")
	}

	args := SendPaymentReminderArgs{
		AgreementUUID: a.UUID,
		Email:         guardian.Email,
		Name:          guardian.Name,
		Month:         month,
		Amount:        payments.OwedAmount(a),
	}
	reminder, err := SendPaymentReminderTask.CreateTask(args)
	if err != nil {
		log.Printf("Failed to build reminder task for agreement %s: %v", a.UUID, err)
		return false
	}
	if err := db.Create(reminder).Error; err != nil {
		log.Printf("Failed to queue reminder for agreement %s: %v", a.UUID, err)
		return false
	}
	return true
}

// ReconcileAgreementsTask is the singleton instance of ReconcileAgreementsTaskDef
var ReconcileAgreementsTask = &ReconcileAgreementsTaskDef{}
