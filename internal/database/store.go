package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordLookup inserts a lookup record and sets its ID.
	RecordLookup(ctx context.Context, record *LookupRecord) error

	// LookupStats returns per-outcome counts, most frequent first.
	LookupStats(ctx context.Context) ([]OutcomeCount, error)

	// PruneLookups deletes records older than before and returns how many were removed.
	PruneLookups(ctx context.Context, before time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) RecordLookup(ctx context.Context, record *LookupRecord) error {
	if record == nil {
		return errors.New("cannot save nil lookup record")
	}
	if record.Outcome == "" {
		return errors.New("lookup record must have an outcome")
	}
	if record.IssueID < 0 {
		return fmt.Errorf("lookup record has negative issue id %d", record.IssueID)
	}
	if record.LookedUpAt.IsZero() {
		record.LookedUpAt = time.Now()
	}
	record.LookedUpAt = record.LookedUpAt.UTC()

	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO lookups (issue_id, outcome, duration_ms, looked_up_at)
		 VALUES (:issue_id, :outcome, :duration_ms, :looked_up_at)`, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert lookup record", "issue_id", record.IssueID, "error", err)
		return fmt.Errorf("failed to insert lookup record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get lookup record id: %w", err)
	}
	record.ID = id
	return nil
}

func (s *sqlxStore) LookupStats(ctx context.Context) ([]OutcomeCount, error) {
	var stats []OutcomeCount
	err := s.db.SelectContext(ctx, &stats,
		`SELECT outcome,
		        COUNT(*) AS count,
		        CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER) AS avg_duration_ms
		   FROM lookups
		  GROUP BY outcome
		  ORDER BY count DESC, outcome ASC`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query lookup stats", "error", err)
		return nil, fmt.Errorf("failed to query lookup stats: %w", err)
	}
	return stats, nil
}

func (s *sqlxStore) PruneLookups(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lookups WHERE looked_up_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune lookup records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned lookup records: %w", err)
	}
	s.logger.DebugContext(ctx, "Pruned lookup records", "before", before, "deleted", n)
	return n, nil
}

// RunSQLMaintenance executes VACUUM and ANALYZE. VACUUM cannot run inside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
		}
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		return fmt.Errorf("failed to execute ANALYZE: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
