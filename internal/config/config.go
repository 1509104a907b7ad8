// Package config provides configuration loading, validation, and defaults
// for issuebot. Values come from a YAML file, ISSUEBOT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the complete application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Lookup    LookupConfig    `mapstructure:"lookup"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the chat transport settings.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	RoomID      int64  `mapstructure:"room_id"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"gte=0"`

	// BotInfo is filled in at startup from getMe.
	BotInfo *models.User `mapstructure:"-" validate:"-"`
}

// LookupConfig selects the issue tracker repository and the credential used to query it.
type LookupConfig struct {
	BaseURL   string        `mapstructure:"base_url"   validate:"required,url"`
	Owner     string        `mapstructure:"owner"      validate:"required"`
	Repo      string        `mapstructure:"repo"       validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout"    validate:"min=1s,max=1m"`
	TokenFile string        `mapstructure:"token_file" validate:"required"`
	UserAgent string        `mapstructure:"user_agent"`
}

// DatabaseConfig holds the lookup audit log settings.
type DatabaseConfig struct {
	Path           string        `mapstructure:"path"            validate:"required"`
	AuditRetention time.Duration `mapstructure:"audit_retention" validate:"min=1h"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task on a cron schedule (seconds field included).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds user-facing text for the auxiliary commands.
// "@botname" is replaced with the bot's username.
type MessagesConfig struct {
	Start        string `mapstructure:"start"         validate:"required"`
	Help         string `mapstructure:"help"          validate:"required"`
	Unauthorized string `mapstructure:"unauthorized"  validate:"required"`
	StatsHeader  string `mapstructure:"stats_header"  validate:"required"`
	StatsEmpty   string `mapstructure:"stats_empty"   validate:"required"`
	StatsError   string `mapstructure:"stats_error"   validate:"required"`
}
