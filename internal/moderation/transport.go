package moderation

import (
	"context"

	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

// Transport is the outbound surface of the chat collaborator. The real
// implementation is *telegram.Client; tests substitute a fake.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64, markup *telegram.InlineKeyboardMarkup) (int64, error)
	CopyMessage(ctx context.Context, toChatID, fromChatID, messageID int64, caption string, markup *telegram.InlineKeyboardMarkup) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *telegram.InlineKeyboardMarkup) error
	EditMessageCaption(ctx context.Context, chatID, messageID int64, caption string, markup *telegram.InlineKeyboardMarkup) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string, showAlert bool) error
}

// BlockStore is the durable blocked-sender set.
type BlockStore interface {
	IsBlocked(ctx context.Context, userID int64) (bool, error)
	Block(ctx context.Context, userID int64) error
	Unblock(ctx context.Context, userID int64) (bool, error)
}
