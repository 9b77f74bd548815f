// Package telegram is a minimal Telegram Bot API client covering the calls
// the suggestion bot makes: long polling, message delivery with inline
// keyboards, message edits, deletes, callback answers, and webhook setup.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.telegram.org"

// APIError is a Bot API rejection (HTTP error status or ok=false). The
// description is kept so callers can tell a misconfigured destination from a
// transient failure.
type APIError struct {
	Method      string
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram %s: http %d: %s", e.Method, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram %s: http %d", e.Method, e.StatusCode)
}

// IsChatUnreachable reports whether err indicates the destination chat is
// gone or the bot lost access to it, which is a configuration problem rather
// than a transient delivery failure.
func IsChatUnreachable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	desc := strings.ToLower(apiErr.Description)
	return strings.Contains(desc, "chat not found") ||
		strings.Contains(desc, "bot was kicked") ||
		strings.Contains(desc, "bot was blocked") ||
		strings.Contains(desc, "not enough rights")
}

type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
	}
}

func (c *Client) postJSON(ctx context.Context, method string, reqBody any, out any) error {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("telegram %s: encode request: %w", method, err)
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var probe okResponse
	_ = json.Unmarshal(raw, &probe)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Method: method, StatusCode: resp.StatusCode, Description: strings.TrimSpace(probe.Description)}
	}
	if !probe.OK {
		return &APIError{Method: method, StatusCode: resp.StatusCode, Description: strings.TrimSpace(probe.Description)}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("telegram %s: decode response: %w", method, err)
		}
	}
	return nil
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var out getMeResponse
	if err := c.postJSON(ctx, "getMe", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out.Result, nil
}

// GetUpdates long-polls for the next batch of updates and returns the batch
// together with the next offset to acknowledge it.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, int64, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	reqBody := struct {
		Offset         int64    `json:"offset,omitempty"`
		Timeout        int      `json:"timeout"`
		AllowedUpdates []string `json:"allowed_updates"`
	}{
		Offset:         offset,
		Timeout:        secs,
		AllowedUpdates: []string{"message", "callback_query"},
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()
	var out getUpdatesResponse
	if err := c.postJSON(reqCtx, "getUpdates", reqBody, &out); err != nil {
		return nil, offset, err
	}

	next := offset
	for _, u := range out.Result {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return out.Result, next, nil
}

// SendMessage delivers text to a chat and returns the new message id. An
// inline keyboard and a reply-to binding are optional.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64, markup *InlineKeyboardMarkup) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(empty)"
	}
	reqBody := sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
		ReplyToMessageID:      replyTo,
		ReplyMarkup:           markup,
	}
	var out messageResponse
	if err := c.postJSON(ctx, "sendMessage", reqBody, &out); err != nil {
		return 0, err
	}
	if out.Result == nil {
		return 0, fmt.Errorf("telegram sendMessage: missing result")
	}
	return out.Result.MessageID, nil
}

// CopyMessage re-posts an existing message (typically a photo) into another
// chat with a replacement caption and keyboard, and returns the copy's id.
func (c *Client) CopyMessage(ctx context.Context, toChatID, fromChatID, messageID int64, caption string, markup *InlineKeyboardMarkup) (int64, error) {
	reqBody := copyMessageRequest{
		ChatID:      toChatID,
		FromChatID:  fromChatID,
		MessageID:   messageID,
		Caption:     caption,
		ReplyMarkup: markup,
	}
	var out messageIDResponse
	if err := c.postJSON(ctx, "copyMessage", reqBody, &out); err != nil {
		return 0, err
	}
	return out.Result.MessageID, nil
}

func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) error {
	reqBody := editMessageTextRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: markup,
	}
	return c.postJSON(ctx, "editMessageText", reqBody, nil)
}

func (c *Client) EditMessageCaption(ctx context.Context, chatID, messageID int64, caption string, markup *InlineKeyboardMarkup) error {
	reqBody := editMessageCaptionRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Caption:     caption,
		ReplyMarkup: markup,
	}
	return c.postJSON(ctx, "editMessageCaption", reqBody, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return c.postJSON(ctx, "deleteMessage", deleteMessageRequest{ChatID: chatID, MessageID: messageID}, nil)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string, showAlert bool) error {
	reqBody := answerCallbackQueryRequest{
		CallbackQueryID: callbackQueryID,
		Text:            text,
		ShowAlert:       showAlert,
	}
	return c.postJSON(ctx, "answerCallbackQuery", reqBody, nil)
}

func (c *Client) SetWebhook(ctx context.Context, url, secretToken string, dropPending bool) error {
	reqBody := setWebhookRequest{
		URL:                url,
		SecretToken:        secretToken,
		DropPendingUpdates: dropPending,
		AllowedUpdates:     []string{"message", "callback_query"},
	}
	return c.postJSON(ctx, "setWebhook", reqBody, nil)
}

func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	return c.postJSON(ctx, "deleteWebhook", deleteWebhookRequest{DropPendingUpdates: dropPending}, nil)
}

// ParseUpdate decodes one webhook request body.
func ParseUpdate(raw []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return Update{}, fmt.Errorf("invalid update json: %w", err)
	}
	if u.Message == nil && u.EditedMessage == nil && u.CallbackQuery == nil {
		return Update{}, fmt.Errorf("update has no message or callback query")
	}
	return u, nil
}
