package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/issuebot/internal/command"
	"github.com/edgard/issuebot/internal/config"
	"github.com/edgard/issuebot/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Commands *command.Handler
}

// MessageSender is the part of *bot.Bot the handlers reply through.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

func botUsername(cfg *config.Config) string {
	if cfg == nil || cfg.Telegram.BotInfo == nil {
		return ""
	}
	return cfg.Telegram.BotInfo.Username
}
