package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/13-4dev98/predlozka-bot/internal/config"
	"github.com/13-4dev98/predlozka-bot/internal/retryutil"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

const (
	startupNoticeText  = "🤖 Bot started and ready to receive suggestions."
	shutdownNoticeText = "💤 Bot is stopping..."
)

func sendStartupNotice(logger *slog.Logger, client *telegram.Client, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := client.SendMessage(ctx, cfg.ModerationChatID, startupNoticeText, 0, nil); err != nil {
		logger.Warn("startup_notice_failed", "error", err.Error())
		retryutil.AsyncRetry(logger, "startup_notice", 0, 0, func(ctx context.Context) error {
			_, err := client.SendMessage(ctx, cfg.ModerationChatID, startupNoticeText, 0, nil)
			return err
		})
	}
}

// sendShutdownNotice is best effort and bounded; shutdown never waits on it
// beyond the timeout.
func sendShutdownNotice(logger *slog.Logger, client *telegram.Client, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.SendMessage(ctx, cfg.ModerationChatID, shutdownNoticeText, 0, nil); err != nil {
		logger.Warn("shutdown_notice_failed", "error", err.Error())
	}
}
