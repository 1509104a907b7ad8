package handlers

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/issuebot/internal/command"
)

const (
	sendTimeout = 10 * time.Second
	// maxMessageRunes is Telegram's limit on message text length.
	maxMessageRunes = 4096
)

// NewLookupHandler returns a handler for "#<number>" messages.
func NewLookupHandler(deps HandlerDeps) bot.HandlerFunc {
	h := lookupHandler{deps: deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h.handle(ctx, b, update)
	}
}

type lookupHandler struct {
	deps HandlerDeps
}

func (h lookupHandler) handle(ctx context.Context, sender MessageSender, update *models.Update) {
	log := h.deps.Logger.With("handler", "lookup")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	reply, ok := h.deps.Commands.Handle(ctx, toInbound(msg, h.deps.Config.Telegram.BotInfo))
	if !ok {
		return
	}

	if ctx.Err() != nil {
		log.InfoContext(ctx, "Discarding reply, bot is shutting down", "chat_id", reply.ConversationID)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	for _, part := range splitText(reply.Body, maxMessageRunes) {
		_, err := sender.SendMessage(sendCtx, &bot.SendMessageParams{
			ChatID: reply.ConversationID,
			Text:   part,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send lookup reply", "error", err, "chat_id", reply.ConversationID)
			return
		}
	}
	log.DebugContext(ctx, "Sent lookup reply", "chat_id", reply.ConversationID)
}

// toInbound converts a Telegram message. The sender's username is the
// nickname, falling back to the first name for users without one.
func toInbound(msg *models.Message, self *models.User) command.InboundMessage {
	nickname := msg.From.Username
	if nickname == "" {
		nickname = msg.From.FirstName
	}
	return command.InboundMessage{
		Sender:         nickname,
		Body:           msg.Text,
		ConversationID: msg.Chat.ID,
		IsSelf:         self != nil && msg.From.ID == self.ID,
	}
}

// splitText cuts s into pieces of at most limit runes.
func splitText(s string, limit int) []string {
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}
	var parts []string
	runes := []rune(s)
	for len(runes) > limit {
		parts = append(parts, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
