package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/issuebot/internal/database"
)

const statsQueryTimeout = 5 * time.Second

// NewStatsHandler returns a handler for the /issue_stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	h := statsHandler{deps: deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h.handle(ctx, b, update)
	}
}

// statsHandler reports lookup counts per outcome from the audit log.
type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) handle(ctx context.Context, sender MessageSender, update *models.Update) {
	log := h.deps.Logger.With("handler", "issue_stats")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	queryCtx, cancel := context.WithTimeout(ctx, statsQueryTimeout)
	defer cancel()

	var text string
	stats, err := h.deps.Store.LookupStats(queryCtx)
	switch {
	case err != nil:
		log.ErrorContext(ctx, "Failed to load lookup stats", "error", err)
		text = h.deps.Config.Messages.StatsError
	case len(stats) == 0:
		text = h.deps.Config.Messages.StatsEmpty
	default:
		text = formatStats(h.deps.Config.Messages.StatsHeader, stats)
	}

	if _, err := sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
	}
}

func formatStats(header string, stats []database.OutcomeCount) string {
	var sb strings.Builder
	sb.WriteString(header)
	var total int64
	for _, s := range stats {
		total += s.Count
		fmt.Fprintf(&sb, "\n%s: %d (avg %dms)", s.Outcome, s.Count, s.AvgDurationMS)
	}
	fmt.Fprintf(&sb, "\ntotal: %d", total)
	return sb.String()
}
