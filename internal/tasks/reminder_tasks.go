package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/services"
)

// SendPaymentReminderArgs defines the arguments for a payment reminder task
type SendPaymentReminderArgs struct {
	AgreementUUID string  `json:"agreement_uuid"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Month         string  `json:"month"`
	Amount        float64 `json:"amount"`
	AttemptCount  int     `json:"attempt_count"`
}

// SendPaymentReminderTaskDef emails a guardian that a billing period is due
type SendPaymentReminderTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendPaymentReminderTaskDef) TaskID() string {
	return "send_payment_reminder"
}

// CreateTask builds a ScheduledTask record for this task
func (t *SendPaymentReminderTaskDef) CreateTask(args SendPaymentReminderArgs) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
}

// HandleExecution sends the reminder email, rescheduling itself on failure
// until the attempt budget runs out.
func (t *SendPaymentReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	args, err := parseArgs[SendPaymentReminderArgs](task.Arguments)
	if err != nil {
		return nil, err
	}

	subject := "Babysitting payment due"
	if args.Month != "" {
		subject = fmt.Sprintf("Babysitting payment due for %s", args.Month)
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nA babysitting payment of %.2f is now due on your agreement.\n"+
			"Open your dashboard to review the details and generate the payment voucher.\n",
		args.Name, args.Amount)

	emailService := services.NewEmailService()
	if sendErr := emailService.SendEmail([]string{args.Email}, subject, body); sendErr != nil {
		log.Printf("Failed to send payment reminder to %s: %v", args.Email, sendErr)

		if args.AttemptCount < task.MaxAttempt {
			newArgs := args
			newArgs.AttemptCount = args.AttemptCount + 1

			// Re-schedule in 5 minutes
			retry, err := BuildScheduledTask(t.TaskID(), newArgs, time.Now().Add(5*time.Minute), nil, models.ScheduledTaskTypeOneTime, task.MaxAttempt)
			if err == nil {
				db.Create(retry)
			} else {
				log.Printf("Failed to create retry task: %v", err)
			}
			return map[string]interface{}{"status": "rescheduled", "attempt": newArgs.AttemptCount}, nil
		}

		return nil, fmt.Errorf("max attempts reached, could not deliver reminder to %s", args.Email)
	}

	return map[string]interface{}{
		"status":    "success",
		"recipient": args.Email,
		"agreement": args.AgreementUUID,
	}, nil
}

// SendPaymentReminderTask is the singleton instance of SendPaymentReminderTaskDef
var SendPaymentReminderTask = &SendPaymentReminderTaskDef{}
