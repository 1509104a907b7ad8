// Package logger provides structured logging for issuebot.
// It uses Go's slog package with configurable levels and formats.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const textPreviewLen = 50

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a stdout logger with the given level and format and makes it the default.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	log := New(os.Stdout, levelStr, jsonOutput)
	slog.SetDefault(log)
	return log
}

// New creates a logger writing to w.
func New(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(levelStr),
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Middleware logs every incoming Telegram update and how long handling took.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			logEntry := updateLogger(log, update)

			logEntry.DebugContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func updateLogger(log *slog.Logger, update *models.Update) *slog.Logger {
	logEntry := log.With("update_id", update.ID)

	msg := update.Message
	if msg == nil {
		return logEntry.With("update_type", "other")
	}

	var userID int64
	var username string
	if msg.From != nil {
		userID = msg.From.ID
		username = msg.From.Username
	}
	return logEntry.With(
		"update_type", "message",
		"message_id", msg.ID,
		"chat_id", msg.Chat.ID,
		"user_id", userID,
		"username", username,
		"text_preview", truncateString(msg.Text, textPreviewLen),
	)
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
