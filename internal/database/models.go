package database

import "time"

// LookupRecord is one completed issue lookup. It deliberately stores no chat
// text and no sender, only what is needed for outcome statistics.
type LookupRecord struct {
	ID         int64     `db:"id"`
	IssueID    int       `db:"issue_id"`
	Outcome    string    `db:"outcome"`
	DurationMS int64     `db:"duration_ms"`
	LookedUpAt time.Time `db:"looked_up_at"`
}

// OutcomeCount aggregates lookups sharing an outcome.
type OutcomeCount struct {
	Outcome       string `db:"outcome"`
	Count         int64  `db:"count"`
	AvgDurationMS int64  `db:"avg_duration_ms"`
}
