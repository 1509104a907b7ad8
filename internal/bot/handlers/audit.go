package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/issuebot/internal/command"
	"github.com/edgard/issuebot/internal/database"
)

const auditWriteTimeout = 2 * time.Second

// AuditObserver records completed lookups in the audit log.
// Write failures are logged and never reach the chat.
type AuditObserver struct {
	store database.Store
	log   *slog.Logger
}

// NewAuditObserver creates an observer writing to store.
func NewAuditObserver(store database.Store, logger *slog.Logger) *AuditObserver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AuditObserver{
		store: store,
		log:   logger.With("component", "audit"),
	}
}

// ObserveLookup implements command.Observer.
func (o *AuditObserver) ObserveLookup(ctx context.Context, event command.LookupEvent) {
	// The lookup already happened, so record it even if ctx is being cancelled.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	record := &database.LookupRecord{
		IssueID:    event.IssueID,
		Outcome:    event.Outcome,
		DurationMS: event.Duration.Milliseconds(),
		LookedUpAt: event.At,
	}
	if err := o.store.RecordLookup(writeCtx, record); err != nil {
		o.log.ErrorContext(ctx, "Failed to record lookup", "issue_id", event.IssueID, "outcome", event.Outcome, "error", err)
	}
}
