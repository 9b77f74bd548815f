// Package config materializes the bot configuration once at startup into an
// immutable value. Components receive it explicitly; nothing reads viper after
// startup.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is constructed once by FromViper and never mutated afterwards.
type Config struct {
	BotToken         string
	AdminIDs         []int64
	ModerationChatID int64

	BaseWebhookURL string
	WebhookSecret  string
	Bind           string
	Port           int

	DBPath      string
	StateDir    string
	PollTimeout time.Duration

	adminSet map[int64]bool
}

func FromViper() (Config, error) {
	cfg := Config{
		BotToken:       strings.TrimSpace(viper.GetString("bot_token")),
		BaseWebhookURL: strings.TrimRight(strings.TrimSpace(viper.GetString("webhook.base_url")), "/"),
		WebhookSecret:  strings.TrimSpace(viper.GetString("webhook.secret")),
		Bind:           strings.TrimSpace(viper.GetString("server.bind")),
		Port:           viper.GetInt("server.port"),
		DBPath:         strings.TrimSpace(viper.GetString("db_path")),
		StateDir:       strings.TrimSpace(viper.GetString("state_dir")),
		PollTimeout:    viper.GetDuration("poll_timeout"),
	}

	adminIDs, err := ParseAdminIDs(viper.GetString("admin_ids"))
	if err != nil {
		return Config{}, err
	}
	cfg.AdminIDs = adminIDs

	moderationChatID, err := parseChatID(viper.GetString("moderation_chat_id"))
	if err != nil {
		return Config{}, err
	}
	cfg.ModerationChatID = moderationChatID

	if cfg.Bind == "" {
		cfg.Bind = "0.0.0.0"
	}
	if cfg.Port <= 0 {
		cfg.Port = 8080
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "suggestion_bot.db"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = ".predlozka"
	}

	cfg.adminSet = make(map[int64]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		cfg.adminSet[id] = true
	}
	return cfg, nil
}

// Validate checks the fields every bot mode needs. Invalid configuration is
// fatal at startup; nothing degrades silently mid-operation.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("missing bot_token (set via --bot-token or PREDLOZKA_BOT_TOKEN)")
	}
	if c.ModerationChatID == 0 {
		return fmt.Errorf("missing moderation_chat_id (suggestions cannot be forwarded without it)")
	}
	if len(c.AdminIDs) == 0 {
		return fmt.Errorf("missing admin_ids (no one could manage suggestions)")
	}
	return nil
}

// ValidateWebhook additionally checks the fields webhook mode needs.
func (c Config) ValidateWebhook() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.BaseWebhookURL == "" {
		return fmt.Errorf("missing webhook.base_url (public HTTPS base address)")
	}
	if !strings.HasPrefix(c.BaseWebhookURL, "https://") {
		return fmt.Errorf("webhook.base_url must be https: %s", c.BaseWebhookURL)
	}
	return nil
}

func (c Config) IsAdmin(userID int64) bool {
	if c.adminSet != nil {
		return c.adminSet[userID]
	}
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// WebhookPath keeps the token in the path so stray POSTs miss; the secret
// header is still checked on every request.
func (c Config) WebhookPath() string {
	return "/webhook/" + c.BotToken
}

func (c Config) WebhookURL() string {
	return c.BaseWebhookURL + c.WebhookPath()
}

func ParseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin_ids entry %q: %w", part, err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func parseChatID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid moderation_chat_id %q: %w", raw, err)
	}
	return id, nil
}
