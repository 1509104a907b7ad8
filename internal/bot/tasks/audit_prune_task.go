package tasks

import (
	"context"
	"fmt"
	"time"
)

const auditPruneTimeout = time.Minute

// newAuditPruneTask deletes audit records older than database.audit_retention.
func newAuditPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "audit_prune")

	return func(ctx context.Context) error {
		retention := deps.Config.Database.AuditRetention
		if retention <= 0 {
			log.WarnContext(ctx, "Audit retention not set, skipping prune")
			return nil
		}
		cutoff := time.Now().Add(-retention)

		timeoutCtx, cancel := context.WithTimeout(ctx, auditPruneTimeout)
		defer cancel()

		deleted, err := deps.Store.PruneLookups(timeoutCtx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Audit prune failed", "error", err, "cutoff", cutoff)
			return fmt.Errorf("audit prune failed: %w", err)
		}

		log.InfoContext(ctx, "Pruned audit log", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
