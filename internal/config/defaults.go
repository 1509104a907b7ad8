package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"

	DefaultLookupBaseURL = "https://api.github.com"
	DefaultLookupOwner   = "GlasFrost"
	DefaultLookupRepo    = "SleekXMPP-mucbot"
	DefaultLookupTimeout = 5 * time.Second
	DefaultTokenFile     = "../github-token-mucbot.txt"
	DefaultUserAgent     = "issuebot"

	DefaultDBPath         = "issuebot.db"
	DefaultAuditRetention = 30 * 24 * time.Hour

	// Task names, shared with the task registry.
	TaskSQLMaintenance = "sql_maintenance"
	TaskAuditPrune     = "audit_prune"

	DefaultSQLMaintenanceSchedule = "0 0 3 * * *"
	DefaultAuditPruneSchedule     = "0 30 3 * * *"
)

// DefaultMessages are used for any message not set in the config file.
var DefaultMessages = MessagesConfig{
	Start:        "Hi! Send #<number> in the room and @botname will look up that issue for you.",
	Help:         "Usage: #<number>, for example #42. @botname replies with the issue link, state, title and description.",
	Unauthorized: "You are not authorized to use this command.",
	StatsHeader:  "Issue lookups by outcome:",
	StatsEmpty:   "No issue lookups recorded yet.",
	StatsError:   "Could not load lookup statistics. Please try again later.",
}

func defaultValues() map[string]any {
	return map[string]any{
		"logger.level": DefaultLogLevel,
		"logger.json":  false,

		"telegram.token":         "",
		"telegram.room_id":       int64(0),
		"telegram.admin_user_id": int64(0),

		"lookup.base_url":   DefaultLookupBaseURL,
		"lookup.owner":      DefaultLookupOwner,
		"lookup.repo":       DefaultLookupRepo,
		"lookup.timeout":    DefaultLookupTimeout,
		"lookup.token_file": DefaultTokenFile,
		"lookup.user_agent": DefaultUserAgent,

		"database.path":            DefaultDBPath,
		"database.audit_retention": DefaultAuditRetention,

		"scheduler.tasks." + TaskSQLMaintenance + ".enabled":  true,
		"scheduler.tasks." + TaskSQLMaintenance + ".schedule": DefaultSQLMaintenanceSchedule,
		"scheduler.tasks." + TaskAuditPrune + ".enabled":      true,
		"scheduler.tasks." + TaskAuditPrune + ".schedule":     DefaultAuditPruneSchedule,

		"messages.start":        DefaultMessages.Start,
		"messages.help":         DefaultMessages.Help,
		"messages.unauthorized": DefaultMessages.Unauthorized,
		"messages.stats_header": DefaultMessages.StatsHeader,
		"messages.stats_empty":  DefaultMessages.StatsEmpty,
		"messages.stats_error":  DefaultMessages.StatsError,
	}
}
