// Package tasks implements the scheduled maintenance tasks of issuebot.
package tasks

import (
	"log/slog"

	"github.com/edgard/issuebot/internal/config"
	"github.com/edgard/issuebot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
