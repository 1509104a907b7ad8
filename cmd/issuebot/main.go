// Package main contains the entrypoint for issuebot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/pflag"

	"github.com/edgard/issuebot/internal/bot"
	"github.com/edgard/issuebot/internal/bot/handlers"
	"github.com/edgard/issuebot/internal/bot/tasks"
	"github.com/edgard/issuebot/internal/command"
	"github.com/edgard/issuebot/internal/config"
	"github.com/edgard/issuebot/internal/credential"
	"github.com/edgard/issuebot/internal/database"
	"github.com/edgard/issuebot/internal/issues"
	"github.com/edgard/issuebot/internal/logger"
	"github.com/edgard/issuebot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the process exit code.
func run(ctx context.Context, args []string) int {
	opts, flags, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := config.LoadConfig(opts.configPath, flags)
	if err != nil {
		slog.Error("Failed to load configuration", "path", opts.configPath, "error", err)
		return 1
	}
	if level := opts.logLevel(); level != "" {
		cfg.Logger.Level = level
	}

	if cfg.Telegram.Token == "" {
		token, err := promptSecret(os.Stdin, os.Stderr, "Telegram bot token: ")
		if err != nil && !errors.Is(err, errNotTerminal) {
			slog.Error("Failed to read bot token", "error", err)
			return 1
		}
		cfg.Telegram.Token = token
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration is invalid", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	token, err := credential.Load(cfg.Lookup.TokenFile)
	if err != nil {
		log.Error("Failed to load issue tracker credential", "path", cfg.Lookup.TokenFile, "error", err)
		return 1
	}

	lookupClient, err := issues.NewClient(issues.Config{
		BaseURL:   cfg.Lookup.BaseURL,
		Owner:     cfg.Lookup.Owner,
		Repo:      cfg.Lookup.Repo,
		Timeout:   cfg.Lookup.Timeout,
		UserAgent: cfg.Lookup.UserAgent,
	}, token, log)
	if err != nil {
		log.Error("Failed to create issue lookup client", "error", err)
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, tgbot.WithMiddlewares(logger.Middleware(log)))
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = telegram.BotIdentity(ctx, tg)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	identity := command.Identity{Nickname: cfg.Telegram.BotInfo.Username, RoomID: cfg.Telegram.RoomID}
	commands := command.NewHandler(identity, lookupClient, log,
		command.WithObserver(handlers.NewAuditObserver(store, log)))

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Commands: commands,
	}
	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, store, tg, sched)

	log.Info("Starting bot...", "repo", cfg.Lookup.Owner+"/"+cfg.Lookup.Repo, "room_id", cfg.Telegram.RoomID)
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
