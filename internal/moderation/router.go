// Package moderation implements the suggestion relay core: forwarding sender
// messages into the moderation chat, the per-moderator reply session state
// machine, block list actions, and the status rewrites on forwarded
// suggestions.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/13-4dev98/predlozka-bot/internal/action"
	"github.com/13-4dev98/predlozka-bot/internal/config"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

// eventKind is decided once per update; downstream handlers never re-parse
// the event to figure out what it is.
type eventKind int

const (
	eventDrop eventKind = iota
	eventInboundContent
	eventAdminCommand
	eventSessionBoundText
)

// Router dispatches every inbound update to exactly one handler based on
// sender role, session state, and event shape.
//
// Policies:
//   - moderators do not submit suggestions; their ordinary content outside an
//     open session is dropped.
//   - a reply action while a session is already open supersedes the old
//     session and removes its prompt.
type Router struct {
	cfg       config.Config
	transport Transport
	store     BlockStore
	sessions  *Sessions
	forwarder *Forwarder
	status    *StatusUpdater
	logger    *slog.Logger
}

func NewRouter(cfg config.Config, transport Transport, store BlockStore, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:       cfg,
		transport: transport,
		store:     store,
		sessions:  NewSessions(),
		forwarder: NewForwarder(transport, cfg.ModerationChatID, logger),
		status:    NewStatusUpdater(transport),
		logger:    logger,
	}
}

func (r *Router) Sessions() *Sessions {
	return r.sessions
}

// HandleUpdate processes one update to completion. Errors are absorbed here:
// every steady-state failure becomes a message to the relevant human actor
// and a log line, never a crash.
func (r *Router) HandleUpdate(ctx context.Context, u telegram.Update) {
	if u.CallbackQuery != nil {
		r.handleAction(ctx, u.CallbackQuery)
		return
	}
	msg := u.Message
	if msg == nil {
		// Edited messages carry no new moderation intent.
		return
	}
	if msg.From == nil || msg.From.IsBot || msg.Chat == nil {
		return
	}
	r.handleMessage(ctx, msg)
}

func (r *Router) handleMessage(ctx context.Context, msg *telegram.Message) {
	isAdmin := r.cfg.IsAdmin(msg.From.ID)
	cmd, args := splitCommand(msg.TextOrCaption())

	kind := r.classifyMessage(msg, isAdmin, cmd)
	switch kind {
	case eventAdminCommand:
		r.handleAdminCommand(ctx, msg, cmd, args)
	case eventSessionBoundText:
		sess := r.sessions.Consume(msg.From.ID, msg.Chat.ID)
		if sess == nil {
			// Raced with a cancel; the session was consumed first.
			r.logger.Debug("reply_text_without_session", "admin_id", msg.From.ID)
			return
		}
		r.deliverReply(ctx, sess, msg)
	case eventInboundContent:
		r.handleSenderContent(ctx, msg, cmd)
	case eventDrop:
		r.logger.Debug("update_dropped",
			"from_id", msg.From.ID,
			"chat_id", msg.Chat.ID,
			"is_admin", isAdmin,
		)
	}
}

func (r *Router) classifyMessage(msg *telegram.Message, isAdmin bool, cmd string) eventKind {
	if !isAdmin {
		return eventInboundContent
	}
	switch cmd {
	case "/start", "/help", "/unban", "/cancel":
		return eventAdminCommand
	case "":
		// Only plain text binds to a moderator's open session, and only in
		// the chat the session records. A photo leaves the session waiting
		// for text; everything else from moderators is dropped (they do not
		// submit suggestions).
		if msg.HasPhoto() {
			return eventDrop
		}
		if sess := r.sessions.Get(msg.From.ID); sess != nil && sess.ChatID == msg.Chat.ID {
			return eventSessionBoundText
		}
		return eventDrop
	default:
		return eventDrop
	}
}

// handleSenderContent is the non-moderator path: blocked-sender short-circuit
// first, then greetings, then the default suggestion path.
func (r *Router) handleSenderContent(ctx context.Context, msg *telegram.Message, cmd string) {
	blocked, err := r.store.IsBlocked(ctx, msg.From.ID)
	if err != nil {
		r.logger.Error("block_lookup_failed", "sender_id", msg.From.ID, "error", err.Error())
		r.reply(ctx, msg, textForwardTransientApology)
		return
	}
	if blocked {
		r.reply(ctx, msg, textBlockedSender)
		return
	}

	switch cmd {
	case "/start", "/help":
		r.reply(ctx, msg, textSenderGreeting)
		return
	}
	if strings.TrimSpace(msg.TextOrCaption()) == "" && !msg.HasPhoto() {
		return
	}
	r.forwarder.Forward(ctx, msg)
}

func (r *Router) handleAdminCommand(ctx context.Context, msg *telegram.Message, cmd, args string) {
	switch cmd {
	case "/start", "/help":
		r.reply(ctx, msg, textAdminGreeting)

	case "/unban":
		args = strings.TrimSpace(args)
		if args == "" || strings.ContainsAny(args, " \t") {
			r.reply(ctx, msg, textUnbanUsage)
			return
		}
		userID, err := strconv.ParseInt(args, 10, 64)
		if err != nil {
			r.reply(ctx, msg, textUnbanInvalidID)
			return
		}
		removed, err := r.store.Unblock(ctx, userID)
		if err != nil {
			r.logger.Error("unban_command_failed", "admin_id", msg.From.ID, "target_id", userID, "error", err.Error())
			r.reply(ctx, msg, fmt.Sprintf("⚠️ Could not unblock user %d: storage error.", userID))
			return
		}
		if removed {
			r.logger.Info("user_unblocked", "admin_id", msg.From.ID, "target_id", userID, "via", "command")
			r.reply(ctx, msg, fmt.Sprintf("✅ User %d has been unblocked.", userID))
		} else {
			r.reply(ctx, msg, fmt.Sprintf("⚠️ User %d was not found in the block list.", userID))
		}

	case "/cancel":
		sess := r.sessions.Consume(msg.From.ID, msg.Chat.ID)
		if sess == nil {
			r.reply(ctx, msg, textNothingToCancel)
			return
		}
		r.cleanupCancelled(ctx, sess, msg.From.DisplayName())
		r.reply(ctx, msg, textCancelConfirmed)
	}
}

// handleAction processes an inline-button interaction.
func (r *Router) handleAction(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.From == nil {
		return
	}
	if !r.cfg.IsAdmin(cb.From.ID) {
		r.answer(ctx, cb.ID, textAdminsOnly, true)
		return
	}

	act, err := action.Decode(cb.Data)
	if err != nil {
		r.logger.Warn("malformed_action_token", "admin_id", cb.From.ID, "data", cb.Data, "error", err.Error())
		r.answer(ctx, cb.ID, textInvalidActionID, true)
		return
	}
	if cb.Message == nil || cb.Message.Chat == nil {
		r.logger.Warn("action_without_message", "admin_id", cb.From.ID, "kind", string(act.Kind))
		r.answer(ctx, cb.ID, textInvalidActionID, true)
		return
	}

	adminName := cb.From.DisplayName()
	chatID := cb.Message.Chat.ID

	switch act.Kind {
	case action.KindBlock:
		r.handleBlockAction(ctx, cb, act.SenderID, adminName)
	case action.KindUnban:
		r.handleUnbanAction(ctx, cb, act.SenderID, adminName)
	case action.KindReply:
		r.handleReplyAction(ctx, cb, act.SenderID)
	case action.KindCancel:
		sess := r.sessions.Consume(cb.From.ID, chatID)
		if sess == nil {
			// Not this moderator's session (or none open). Acknowledge the
			// interaction without revealing anything.
			r.answer(ctx, cb.ID, "", false)
			return
		}
		r.cleanupCancelled(ctx, sess, adminName)
		r.answer(ctx, cb.ID, textCancelConfirmed, false)
	}
}

func (r *Router) handleBlockAction(ctx context.Context, cb *telegram.CallbackQuery, senderID int64, adminName string) {
	if err := r.store.Block(ctx, senderID); err != nil {
		r.logger.Error("block_failed", "admin_id", cb.From.ID, "target_id", senderID, "error", err.Error())
		r.answer(ctx, cb.ID, fmt.Sprintf("⚠️ Could not block user %d: storage error.", senderID), true)
		return
	}
	r.logger.Info("user_blocked", "admin_id", cb.From.ID, "target_id", senderID)
	r.answer(ctx, cb.ID, fmt.Sprintf("User %d blocked.", senderID), true)

	msg := cb.Message
	err := r.status.Rewrite(ctx, msg.Chat.ID, msg.MessageID, msg.HasPhoto(), msg.TextOrCaption(),
		blockedStatus(adminName), unbanControls(senderID))
	if err != nil {
		// The block itself stands; only the visual update failed.
		r.logger.Warn("status_rewrite_failed", "target_id", senderID, "error", err.Error())
	}
}

func (r *Router) handleUnbanAction(ctx context.Context, cb *telegram.CallbackQuery, senderID int64, adminName string) {
	removed, err := r.store.Unblock(ctx, senderID)
	if err != nil {
		r.logger.Error("unban_failed", "admin_id", cb.From.ID, "target_id", senderID, "error", err.Error())
		r.answer(ctx, cb.ID, fmt.Sprintf("⚠️ Could not unblock user %d: storage error.", senderID), true)
		return
	}
	if !removed {
		r.answer(ctx, cb.ID, fmt.Sprintf("User %d was not found in the block list.", senderID), true)
		return
	}
	r.logger.Info("user_unblocked", "admin_id", cb.From.ID, "target_id", senderID, "via", "button")
	r.answer(ctx, cb.ID, fmt.Sprintf("User %d has been unblocked.", senderID), true)

	msg := cb.Message
	err = r.status.Rewrite(ctx, msg.Chat.ID, msg.MessageID, msg.HasPhoto(), msg.TextOrCaption(),
		unblockedStatus(adminName), defaultControls(senderID))
	if err != nil {
		r.logger.Warn("status_rewrite_failed", "target_id", senderID, "error", err.Error())
	}
}

func (r *Router) handleReplyAction(ctx context.Context, cb *telegram.CallbackQuery, targetID int64) {
	msg := cb.Message
	chatID := msg.Chat.ID

	prompt := replyPrompt(cb.From, targetID)
	promptID, err := r.transport.SendMessage(ctx, chatID, prompt, 0, cancelControls(targetID))
	if err != nil {
		r.logger.Error("reply_prompt_failed", "admin_id", cb.From.ID, "target_id", targetID, "error", err.Error())
		r.answer(ctx, cb.ID, "⚠️ Could not open the reply prompt. Please try again.", true)
		return
	}

	sess := &ReplySession{
		ID:              uuid.NewString(),
		AdminID:         cb.From.ID,
		TargetID:        targetID,
		ChatID:          chatID,
		PromptMessageID: promptID,
		OriginMessageID: msg.MessageID,
		OriginHasPhoto:  msg.HasPhoto(),
		OriginBody:      msg.TextOrCaption(),
		CreatedAt:       time.Now().UTC(),
	}
	answerText := textEnterReply
	if prev := r.sessions.Start(sess); prev != nil {
		r.logger.Info("reply_session_superseded",
			"admin_id", cb.From.ID,
			"old_session_id", prev.ID,
			"new_session_id", sess.ID,
		)
		if err := r.transport.DeleteMessage(ctx, prev.ChatID, prev.PromptMessageID); err != nil {
			r.logger.Warn("stale_prompt_delete_failed", "session_id", prev.ID, "error", err.Error())
		}
		answerText = textSessionSuperseded + "\n" + textEnterReply
	}
	r.logger.Info("reply_session_opened", "session_id", sess.ID, "admin_id", cb.From.ID, "target_id", targetID)
	r.answer(ctx, cb.ID, answerText, false)
}

// deliverReply sends the captured text to the target sender. The session was
// consumed before this call, so a second text from the same moderator cannot
// trigger a double delivery.
func (r *Router) deliverReply(ctx context.Context, sess *ReplySession, msg *telegram.Message) {
	adminName := msg.From.DisplayName()
	replyText := strings.TrimSpace(msg.Text)

	_, deliverErr := r.transport.SendMessage(ctx, sess.TargetID, textReplyPrefix+replyText, 0, nil)

	// Transient prompt and the triggering message are chat noise either way.
	if err := r.transport.DeleteMessage(ctx, sess.ChatID, sess.PromptMessageID); err != nil {
		r.logger.Warn("prompt_delete_failed", "session_id", sess.ID, "error", err.Error())
	}
	if err := r.transport.DeleteMessage(ctx, sess.ChatID, msg.MessageID); err != nil {
		r.logger.Warn("reply_text_delete_failed", "session_id", sess.ID, "error", err.Error())
	}

	suffix := repliedStatus(adminName)
	if deliverErr != nil {
		suffix = replyFailedStatus(adminName)
		r.logger.Error("reply_delivery_failed",
			"session_id", sess.ID,
			"target_id", sess.TargetID,
			"error", deliverErr.Error(),
		)
		notice := fmt.Sprintf("⚠️ Could not send reply to user %d. They might have blocked the bot, or the ID might be invalid.\nError details: %s",
			sess.TargetID, deliverErr.Error())
		if _, err := r.transport.SendMessage(ctx, sess.ChatID, notice, 0, nil); err != nil {
			r.logger.Warn("reply_failure_notice_failed", "session_id", sess.ID, "error", err.Error())
		}
	} else {
		r.logger.Info("reply_delivered", "session_id", sess.ID, "admin_id", sess.AdminID, "target_id", sess.TargetID)
	}

	err := r.status.Rewrite(ctx, sess.ChatID, sess.OriginMessageID, sess.OriginHasPhoto, sess.OriginBody,
		suffix, defaultControls(sess.TargetID))
	if err != nil {
		r.logger.Warn("status_rewrite_failed", "session_id", sess.ID, "error", err.Error())
	}
}

// cleanupCancelled removes the prompt artifact and marks the origin
// suggestion cancelled. The session is already consumed.
func (r *Router) cleanupCancelled(ctx context.Context, sess *ReplySession, adminName string) {
	if err := r.transport.DeleteMessage(ctx, sess.ChatID, sess.PromptMessageID); err != nil {
		r.logger.Warn("prompt_delete_failed", "session_id", sess.ID, "error", err.Error())
	}
	err := r.status.Rewrite(ctx, sess.ChatID, sess.OriginMessageID, sess.OriginHasPhoto, sess.OriginBody,
		cancelledStatus(adminName), defaultControls(sess.TargetID))
	if err != nil {
		r.logger.Warn("status_rewrite_failed", "session_id", sess.ID, "error", err.Error())
	}
	r.logger.Info("reply_session_cancelled", "session_id", sess.ID, "admin_id", sess.AdminID)
}

func (r *Router) reply(ctx context.Context, msg *telegram.Message, text string) {
	if _, err := r.transport.SendMessage(ctx, msg.Chat.ID, text, msg.MessageID, nil); err != nil {
		r.logger.Warn("reply_send_failed", "chat_id", msg.Chat.ID, "error", err.Error())
	}
}

func (r *Router) answer(ctx context.Context, callbackID, text string, showAlert bool) {
	if err := r.transport.AnswerCallbackQuery(ctx, callbackID, text, showAlert); err != nil {
		r.logger.Warn("callback_answer_failed", "callback_id", callbackID, "error", err.Error())
	}
}

func replyPrompt(admin *telegram.User, targetID int64) string {
	name := admin.DisplayName()
	return fmt.Sprintf("%s reply to user ID: %d\nSend the reply text here, or /cancel to abort.", name, targetID)
}

// splitCommand extracts a leading slash command (with optional @botname
// suffix) and the remaining arguments.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, rest, _ := strings.Cut(text, " ")
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}
