package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/13-4dev98/predlozka-bot/internal/blockstore"
	"github.com/13-4dev98/predlozka-bot/internal/config"
	"github.com/13-4dev98/predlozka-bot/internal/logutil"
	"github.com/13-4dev98/predlozka-bot/internal/moderation"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

const (
	webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
	maxUpdateBodyBytes  = 1 << 20
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot behind a Telegram webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := botFlagPairs()
			pairs["base-url"] = "webhook.base_url"
			pairs["webhook-secret"] = "webhook.secret"
			pairs["bind"] = "server.bind"
			pairs["port"] = "server.port"
			pairs["max-concurrency"] = "max_concurrency"
			overrideFromFlags(cmd, pairs)
			return runWebhook(cmd.Context())
		},
	}
	addBotFlags(cmd)
	cmd.Flags().String("base-url", "", "Public HTTPS base address Telegram can reach (required).")
	cmd.Flags().String("webhook-secret", "", "Secret token Telegram echoes back on every delivery.")
	cmd.Flags().String("bind", "", "Listen address (default: 0.0.0.0).")
	cmd.Flags().Int("port", 0, "Listen port (default: 8080).")
	cmd.Flags().Int("max-concurrency", 0, "Maximum updates handled at once (default: 8).")
	return cmd
}

func runWebhook(parent context.Context) error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}
	if err := cfg.ValidateWebhook(); err != nil {
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

	router := moderation.NewRouter(cfg, client, store, logger)
	disp := newDispatcher(router, logger, viper.GetInt("max_concurrency"))

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+cfg.WebhookPath(), webhookHandler(cfg, logger, disp))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("webhook_server_listening", "addr", srv.Addr, "path", cfg.WebhookPath())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	registerCtx, cancelRegister := context.WithTimeout(parent, 15*time.Second)
	err = client.SetWebhook(registerCtx, cfg.WebhookURL(), cfg.WebhookSecret, true)
	cancelRegister()
	if err != nil {
		_ = srv.Close()
		return fmt.Errorf("register webhook: %w", err)
	}
	logger.Info("webhook_registered", "url", cfg.WebhookURL())

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sendStartupNotice(logger, client, cfg)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("webhook server: %w", err)
		}
		return nil
	}

	logger.Info("webhook_server_stopping")

	unregisterCtx, cancelUnregister := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.DeleteWebhook(unregisterCtx, false); err != nil {
		logger.Warn("delete_webhook_failed", "error", err.Error())
	}
	cancelUnregister()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server_shutdown_failed", "error", err.Error())
	}
	cancelShutdown()

	disp.Close()
	sendShutdownNotice(logger, client, cfg)
	return nil
}

// webhookHandler accepts update deliveries from Telegram. The response is 200
// regardless of handling outcome; rejecting a delivery only makes Telegram
// redeliver an update we already decided about.
func webhookHandler(cfg config.Config, logger *slog.Logger, disp *dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.WebhookSecret != "" {
			got := r.Header.Get(webhookSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.WebhookSecret)) != 1 {
				logger.Warn("webhook_secret_mismatch", "remote", r.RemoteAddr)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBodyBytes))
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		u, err := telegram.ParseUpdate(raw)
		if err != nil {
			logger.Debug("webhook_update_ignored", "error", err.Error())
			w.WriteHeader(http.StatusOK)
			return
		}

		disp.Enqueue(u)
		w.WriteHeader(http.StatusOK)
	}
}
