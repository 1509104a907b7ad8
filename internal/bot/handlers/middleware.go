// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that checks if the message sender is the configured admin user.
// If not, it sends the unauthorized message and stops processing.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if !allowAdmin(ctx, deps, bot, update) {
				return
			}
			next(ctx, bot, update)
		}
	}
}

// allowAdmin reports whether update may proceed, replying to anyone who is not the admin.
func allowAdmin(ctx context.Context, deps HandlerDeps, sender MessageSender, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	userID := update.Message.From.ID
	if deps.Config.Telegram.IsAdmin(userID) {
		return true
	}

	chatID := update.Message.Chat.ID
	log := deps.Logger.With("middleware", "AdminOnly")
	log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

	_, err := sender.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Config.Messages.Unauthorized,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
	}
	return false
}
