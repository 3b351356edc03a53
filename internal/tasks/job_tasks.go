package tasks

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
)

// CloseExpiredJobsTaskDef deactivates job posts whose ending date passed so
// babysitters stop applying to arrangements that can no longer happen.
type CloseExpiredJobsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *CloseExpiredJobsTaskDef) TaskID() string {
	return "close_expired_jobs"
}

// CreateTask builds the recurring ScheduledTask record for this task
func (t *CloseExpiredJobsTaskDef) CreateTask(due time.Time, recurringInterval string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, &recurringInterval, models.ScheduledTaskTypeRecurring, 1)
}

// HandleExecution closes all active jobs past their ending date
func (t *CloseExpiredJobsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	result := db.Model(&models.Job{}).
		Where("is_active = ? AND ending_date < ?", true, time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to close expired jobs: %w", result.Error)
	}

	return map[string]interface{}{
		"status": "success",
		"closed": result.RowsAffected,
	}, nil
}

// CloseExpiredJobsTask is the singleton instance of CloseExpiredJobsTaskDef
var CloseExpiredJobsTask = &CloseExpiredJobsTaskDef{}
