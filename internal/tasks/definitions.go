package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	// Payment cycle tasks
	RegisterHandler(ReconcileAgreementsTask.TaskID(), ReconcileAgreementsTask.HandleExecution)
	RegisterHandler(SendPaymentReminderTask.TaskID(), SendPaymentReminderTask.HandleExecution)

	// Marketplace housekeeping
	RegisterHandler(CloseExpiredJobsTask.TaskID(), CloseExpiredJobsTask.HandleExecution)
}
