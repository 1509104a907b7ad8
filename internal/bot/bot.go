// Package bot wires the Telegram listener and the task scheduler together
// and manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/issuebot/internal/database"
)

const pingTimeout = 5 * time.Second

// Listener receives chat updates until ctx is cancelled. *bot.Bot implements it.
type Listener interface {
	Start(ctx context.Context)
}

// Bot owns the running components.
type Bot struct {
	logger    *slog.Logger
	store     database.Store
	listener  Listener
	scheduler *Scheduler
}

// NewBot creates the orchestrator.
func NewBot(logger *slog.Logger, store database.Store, listener Listener, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		store:     store,
		listener:  listener,
		scheduler: scheduler,
	}
}

// Run starts the listener and the scheduler and blocks until ctx is cancelled
// or either of them fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := b.store.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.listener.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			return errors.New("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
