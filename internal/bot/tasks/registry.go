package tasks

import (
	"context"

	"github.com/edgard/issuebot/internal/config"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns all scheduled tasks keyed by the name used in the
// scheduler.tasks config section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		config.TaskSQLMaintenance: newSQLMaintenanceTask(deps),
		config.TaskAuditPrune:     newAuditPruneTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
