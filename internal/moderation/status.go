package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

// statusSeparator delimits the status suffix appended to a forwarded
// suggestion. Everything before the first separator is the pristine rendered
// body; strip-then-append keeps transitions lossless and idempotent.
const statusSeparator = "\n\n---\n"

func blockedStatus(adminName string) string {
	return "🚫 User blocked by " + adminName
}

func unblockedStatus(adminName string) string {
	return "🟢 User unblocked by " + adminName
}

func repliedStatus(adminName string) string {
	return "✅ Replied by " + adminName
}

func replyFailedStatus(adminName string) string {
	return "⚠️ Reply failed by " + adminName
}

func cancelledStatus(adminName string) string {
	return "❌ Reply cancelled by " + adminName
}

// StripStatus returns the rendered body without any appended status suffix.
func StripStatus(body string) string {
	base, _, _ := strings.Cut(body, statusSeparator)
	return base
}

// ApplyStatus replaces any existing status suffix on body with suffix.
func ApplyStatus(body, suffix string) string {
	return StripStatus(body) + statusSeparator + suffix
}

// StatusUpdater rewrites a forwarded suggestion in place to reflect the
// latest moderation outcome. It is the single owner of the suffix format.
type StatusUpdater struct {
	transport Transport
}

func NewStatusUpdater(transport Transport) *StatusUpdater {
	return &StatusUpdater{transport: transport}
}

// Rewrite edits the forwarded message identified by (chatID, messageID) to
// carry suffix and markup. currentBody is the body as carried by the
// triggering event (Telegram has no message fetch); hasPhoto selects caption
// vs text editing. A failed edit is reported to the caller but must not roll
// back the logical action that triggered it.
func (u *StatusUpdater) Rewrite(ctx context.Context, chatID, messageID int64, hasPhoto bool, currentBody, suffix string, markup *telegram.InlineKeyboardMarkup) error {
	newBody := ApplyStatus(currentBody, suffix)
	var err error
	if hasPhoto {
		err = u.transport.EditMessageCaption(ctx, chatID, messageID, newBody, markup)
	} else {
		err = u.transport.EditMessageText(ctx, chatID, messageID, newBody, markup)
	}
	if err != nil {
		return fmt.Errorf("rewrite status of message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}
