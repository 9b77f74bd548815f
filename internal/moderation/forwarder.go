package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

// Forwarder relays a sender's suggestion into the moderation chat with the
// sender header and the default {Reply, Block} controls, then acknowledges
// the sender. Nothing is persisted; the rendered message is the only
// artifact.
type Forwarder struct {
	transport        Transport
	moderationChatID int64
	logger           *slog.Logger
}

func NewForwarder(transport Transport, moderationChatID int64, logger *slog.Logger) *Forwarder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{
		transport:        transport,
		moderationChatID: moderationChatID,
		logger:           logger,
	}
}

// RenderHeader composes the sender header carried above the suggestion body.
func RenderHeader(from *telegram.User) string {
	header := "New suggestion from: " + from.DisplayName()
	if username := strings.TrimSpace(from.Username); username != "" {
		header += " (@" + username + ")"
	}
	header += fmt.Sprintf("\nID: %d", from.ID)
	return header
}

// Forward delivers msg to the moderation chat. The caller has already
// verified the sender is not blocked. On delivery failure the sender gets an
// apology that distinguishes a configuration problem from a transient error;
// no state is mutated. On success the sender is acknowledged exactly once.
func (f *Forwarder) Forward(ctx context.Context, msg *telegram.Message) {
	from := msg.From
	senderChatID := msg.Chat.ID
	correlationID := uuid.NewString()

	header := RenderHeader(from)
	controls := defaultControls(from.ID)

	var (
		forwardedID int64
		err         error
	)
	if msg.HasPhoto() {
		caption := header
		if body := strings.TrimSpace(msg.Caption); body != "" {
			caption += "\n\n" + body
		}
		forwardedID, err = f.transport.CopyMessage(ctx, f.moderationChatID, senderChatID, msg.MessageID, caption, controls)
	} else {
		body := header + "\n\n" + msg.Text
		forwardedID, err = f.transport.SendMessage(ctx, f.moderationChatID, body, 0, controls)
	}
	if err != nil {
		f.logger.Error("suggestion_forward_failed",
			"correlation_id", correlationID,
			"sender_id", from.ID,
			"moderation_chat_id", f.moderationChatID,
			"error", err.Error(),
		)
		apology := textForwardTransientApology
		if telegram.IsChatUnreachable(err) {
			apology = textForwardConfigApology
		}
		if _, sendErr := f.transport.SendMessage(ctx, senderChatID, apology, msg.MessageID, nil); sendErr != nil {
			f.logger.Warn("suggestion_apology_failed", "correlation_id", correlationID, "error", sendErr.Error())
		}
		return
	}

	f.logger.Info("suggestion_forwarded",
		"correlation_id", correlationID,
		"sender_id", from.ID,
		"forwarded_message_id", forwardedID,
	)
	if _, err := f.transport.SendMessage(ctx, senderChatID, textSuggestionAck, msg.MessageID, nil); err != nil {
		f.logger.Warn("suggestion_ack_failed", "correlation_id", correlationID, "error", err.Error())
	}
}
