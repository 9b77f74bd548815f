package config

import (
	"strings"
	"testing"
)

func TestParseAdminIDs(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "42", want: []int64{42}},
		{name: "list with spaces", raw: " 1, 2 ,3 ", want: []int64{1, 2, 3}},
		{name: "trailing comma", raw: "1,2,", want: []int64{1, 2}},
		{name: "duplicates collapsed", raw: "7,7,7", want: []int64{7}},
		{name: "garbage", raw: "1,abc", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAdminIDs(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAdminIDs(%q) error = nil, want error", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAdminIDs(%q) error = %v", tc.raw, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("ParseAdminIDs(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("ParseAdminIDs(%q) = %v, want %v", tc.raw, got, tc.want)
				}
			}
		})
	}
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "no token", cfg: Config{AdminIDs: []int64{1}, ModerationChatID: -1}, want: "bot_token"},
		{name: "no moderation chat", cfg: Config{BotToken: "t", AdminIDs: []int64{1}}, want: "moderation_chat_id"},
		{name: "no admins", cfg: Config{BotToken: "t", ModerationChatID: -1}, want: "admin_ids"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() error = %v, want mention of %s", err, tc.want)
			}
		})
	}

	ok := Config{BotToken: "t", AdminIDs: []int64{1}, ModerationChatID: -1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v for complete config", err)
	}
}

func TestValidateWebhookRequiresHTTPSBase(t *testing.T) {
	cfg := Config{BotToken: "t", AdminIDs: []int64{1}, ModerationChatID: -1}
	if err := cfg.ValidateWebhook(); err == nil || !strings.Contains(err.Error(), "webhook.base_url") {
		t.Fatalf("ValidateWebhook() error = %v, want missing base url", err)
	}

	cfg.BaseWebhookURL = "http://example.com"
	if err := cfg.ValidateWebhook(); err == nil || !strings.Contains(err.Error(), "https") {
		t.Fatalf("ValidateWebhook() error = %v, want https requirement", err)
	}

	cfg.BaseWebhookURL = "https://example.com"
	if err := cfg.ValidateWebhook(); err != nil {
		t.Fatalf("ValidateWebhook() error = %v", err)
	}
	if got := cfg.WebhookURL(); got != "https://example.com/webhook/t" {
		t.Fatalf("WebhookURL() = %q", got)
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := Config{AdminIDs: []int64{1, 2}}
	if !cfg.IsAdmin(1) || !cfg.IsAdmin(2) {
		t.Fatalf("IsAdmin() = false for configured admin")
	}
	if cfg.IsAdmin(3) {
		t.Fatalf("IsAdmin(3) = true, want false")
	}
}
