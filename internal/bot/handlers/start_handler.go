package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return textHandler{deps: deps, name: "start", text: func() string { return deps.Config.Messages.Start }}.Handle
}

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return textHandler{deps: deps, name: "help", text: func() string { return deps.Config.Messages.Help }}.Handle
}

// textHandler replies with a fixed configured message.
type textHandler struct {
	deps HandlerDeps
	name string
	text func() string
}

func (h textHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h textHandler) handle(ctx context.Context, sender MessageSender, update *models.Update) {
	log := h.deps.Logger.With("handler", h.name)

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /"+h.name+" command", "chat_id", chatID, "user_id", update.Message.From.ID)

	text := h.text()
	if name := botUsername(h.deps.Config); name != "" {
		text = strings.ReplaceAll(text, "@botname", "@"+name)
	}
	if _, err := sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	} else {
		log.DebugContext(ctx, "Successfully sent message", "chat_id", chatID)
	}
}
