package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/13-4dev98/predlozka-bot/internal/blockstore"
	"github.com/13-4dev98/predlozka-bot/internal/config"
	"github.com/13-4dev98/predlozka-bot/internal/fsstore"
	"github.com/13-4dev98/predlozka-bot/internal/logutil"
	"github.com/13-4dev98/predlozka-bot/internal/moderation"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

const offsetFileName = "offset.json"

// pollState is the persisted long-poll cursor. Updates below Offset have been
// acknowledged and will not be redelivered after a restart.
type pollState struct {
	Offset int64 `json:"offset"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bot with long polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := botFlagPairs()
			pairs["poll-timeout"] = "poll_timeout"
			pairs["max-concurrency"] = "max_concurrency"
			overrideFromFlags(cmd, pairs)
			return runPolling(cmd.Context())
		},
	}
	addBotFlags(cmd)
	cmd.Flags().Duration("poll-timeout", 0, "Long-poll timeout per getUpdates call (default: 30s).")
	cmd.Flags().Int("max-concurrency", 0, "Maximum updates handled at once (default: 8).")
	return cmd
}

func runPolling(parent context.Context) error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	store, err := blockstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client := telegram.NewClient(nil, "", cfg.BotToken)

	startupCtx, cancelStartup := context.WithTimeout(parent, 15*time.Second)
	me, err := client.GetMe(startupCtx)
	cancelStartup()
	if err != nil {
		return fmt.Errorf("bot token check failed: %w", err)
	}
	logger.Info("bot_authorized", "username", me.Username, "id", me.ID)

	// Long polling and a webhook are mutually exclusive on the Bot API side;
	// drop any leftover webhook so getUpdates works.
	webhookCtx, cancelWebhook := context.WithTimeout(parent, 10*time.Second)
	if err := client.DeleteWebhook(webhookCtx, false); err != nil {
		logger.Warn("delete_webhook_failed", "error", err.Error())
	}
	cancelWebhook()

	router := moderation.NewRouter(cfg, client, store, logger)
	disp := newDispatcher(router, logger, viper.GetInt("max_concurrency"))

	offsetPath := filepath.Join(cfg.StateDir, offsetFileName)
	var state pollState
	if found, err := fsstore.ReadJSON(offsetPath, &state); err != nil {
		logger.Warn("offset_load_failed", "path", offsetPath, "error", err.Error())
		state = pollState{}
	} else if found {
		logger.Info("offset_loaded", "offset", state.Offset)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sendStartupNotice(logger, client, cfg)
	logger.Info("polling_started", "timeout", cfg.PollTimeout.String())

	for {
		updates, next, err := client.GetUpdates(ctx, state.Offset, cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				break
			}
			logger.Warn("get_updates_failed", "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		for _, u := range updates {
			disp.Enqueue(u)
		}
		if next != state.Offset {
			state.Offset = next
			if err := fsstore.WriteJSONAtomic(offsetPath, state, fsstore.FileOptions{}); err != nil {
				logger.Warn("offset_persist_failed", "path", offsetPath, "error", err.Error())
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	logger.Info("polling_stopping")
	disp.Close()
	sendShutdownNotice(logger, client, cfg)
	return nil
}
