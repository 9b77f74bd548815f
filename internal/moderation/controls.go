package moderation

import (
	"github.com/13-4dev98/predlozka-bot/internal/action"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

// The control set on a forwarded suggestion has exactly two shapes:
// {Reply, Block} by default and {Unban} after a block.

func defaultControls(senderID int64) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: buttonReply, CallbackData: action.Encode(action.KindReply, senderID)},
			{Text: buttonBlock, CallbackData: action.Encode(action.KindBlock, senderID)},
		}},
	}
}

func unbanControls(senderID int64) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: buttonUnban, CallbackData: action.Encode(action.KindUnban, senderID)},
		}},
	}
}

func cancelControls(senderID int64) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: buttonCancel, CallbackData: action.Encode(action.KindCancel, senderID)},
		}},
	}
}
