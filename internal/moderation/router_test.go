package moderation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/13-4dev98/predlozka-bot/internal/config"
	"github.com/13-4dev98/predlozka-bot/internal/telegram"
)

const (
	testModerationChat = int64(-100)
	testAdminID        = int64(1)
	testSecondAdminID  = int64(2)
)

type fakeStore struct {
	mu      sync.Mutex
	blocked map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{blocked: make(map[int64]bool)}
}

func (s *fakeStore) IsBlocked(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked[userID], nil
}

func (s *fakeStore) Block(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked[userID] = true
	return nil
}

func (s *fakeStore) Unblock(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.blocked[userID] {
		return false, nil
	}
	delete(s.blocked, userID)
	return true, nil
}

type sentMsg struct {
	ChatID  int64
	Text    string
	ReplyTo int64
	Markup  *telegram.InlineKeyboardMarkup
}

type editCall struct {
	ChatID    int64
	MessageID int64
	Body      string
	Markup    *telegram.InlineKeyboardMarkup
	Caption   bool
}

type deleteCall struct {
	ChatID    int64
	MessageID int64
}

type answerCall struct {
	ID    string
	Text  string
	Alert bool
}

type fakeTransport struct {
	mu         sync.Mutex
	nextID     int64
	sent       []sentMsg
	edits      []editCall
	deletes    []deleteCall
	answers    []answerCall
	failSendTo map[int64]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 100, failSendTo: make(map[int64]error)}
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, replyTo int64, markup *telegram.InlineKeyboardMarkup) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSendTo[chatID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.sent = append(f.sent, sentMsg{ChatID: chatID, Text: text, ReplyTo: replyTo, Markup: markup})
	return f.nextID, nil
}

func (f *fakeTransport) CopyMessage(_ context.Context, toChatID, _, _ int64, caption string, markup *telegram.InlineKeyboardMarkup) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSendTo[toChatID]; err != nil {
		return 0, err
	}
	f.nextID++
	f.sent = append(f.sent, sentMsg{ChatID: toChatID, Text: caption, Markup: markup})
	return f.nextID, nil
}

func (f *fakeTransport) EditMessageText(_ context.Context, chatID, messageID int64, text string, markup *telegram.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editCall{ChatID: chatID, MessageID: messageID, Body: text, Markup: markup})
	return nil
}

func (f *fakeTransport) EditMessageCaption(_ context.Context, chatID, messageID int64, caption string, markup *telegram.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editCall{ChatID: chatID, MessageID: messageID, Body: caption, Markup: markup, Caption: true})
	return nil
}

func (f *fakeTransport) DeleteMessage(_ context.Context, chatID, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, deleteCall{ChatID: chatID, MessageID: messageID})
	return nil
}

func (f *fakeTransport) AnswerCallbackQuery(_ context.Context, callbackQueryID, text string, showAlert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, answerCall{ID: callbackQueryID, Text: text, Alert: showAlert})
	return nil
}

func (f *fakeTransport) sentTo(chatID int64) []sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMsg
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func newTestRouter(t *testing.T) (*Router, *fakeTransport, *fakeStore) {
	t.Helper()
	cfg := config.Config{
		AdminIDs:         []int64{testAdminID, testSecondAdminID},
		ModerationChatID: testModerationChat,
	}
	transport := newFakeTransport()
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, transport, store, logger), transport, store
}

func senderMessage(senderID int64, name, username, text string) telegram.Update {
	return telegram.Update{Message: &telegram.Message{
		MessageID: 1,
		Chat:      &telegram.Chat{ID: senderID, Type: "private"},
		From:      &telegram.User{ID: senderID, FirstName: name, Username: username},
		Text:      text,
	}}
}

func adminMessage(adminID, messageID int64, name, text string) telegram.Update {
	return telegram.Update{Message: &telegram.Message{
		MessageID: messageID,
		Chat:      &telegram.Chat{ID: testModerationChat, Type: "supergroup"},
		From:      &telegram.User{ID: adminID, FirstName: name},
		Text:      text,
	}}
}

func adminCallback(adminID int64, name, data string, origin *telegram.Message) telegram.Update {
	return telegram.Update{CallbackQuery: &telegram.CallbackQuery{
		ID:      fmt.Sprintf("cb_%d_%s", adminID, data),
		From:    &telegram.User{ID: adminID, FirstName: name},
		Message: origin,
		Data:    data,
	}}
}

func forwardedSuggestion(messageID int64, senderID int64, body string) *telegram.Message {
	return &telegram.Message{
		MessageID: messageID,
		Chat:      &telegram.Chat{ID: testModerationChat, Type: "supergroup"},
		Text:      body,
	}
}

func markupData(m *telegram.InlineKeyboardMarkup) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func TestSuggestionForwardedWithHeaderAndControls(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	router.HandleUpdate(context.Background(), senderMessage(111, "Alice", "", "Add dark mode"))

	forwarded := transport.sentTo(testModerationChat)
	if len(forwarded) != 1 {
		t.Fatalf("moderation chat received %d messages, want 1", len(forwarded))
	}
	wantBody := "New suggestion from: Alice\nID: 111\n\nAdd dark mode"
	if forwarded[0].Text != wantBody {
		t.Fatalf("forwarded body = %q, want %q", forwarded[0].Text, wantBody)
	}
	if got := markupData(forwarded[0].Markup); len(got) != 2 || got[0] != "reply_111" || got[1] != "block_111" {
		t.Fatalf("forwarded controls = %v, want [reply_111 block_111]", got)
	}

	acks := transport.sentTo(111)
	if len(acks) != 1 || acks[0].Text != textSuggestionAck {
		t.Fatalf("sender acks = %+v, want single ack %q", acks, textSuggestionAck)
	}
}

func TestSuggestionHeaderIncludesUsername(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	router.HandleUpdate(context.Background(), senderMessage(111, "Alice", "alice", "hi"))

	forwarded := transport.sentTo(testModerationChat)
	if len(forwarded) != 1 {
		t.Fatalf("moderation chat received %d messages, want 1", len(forwarded))
	}
	if !strings.HasPrefix(forwarded[0].Text, "New suggestion from: Alice (@alice)\nID: 111") {
		t.Fatalf("forwarded body = %q, want username in header", forwarded[0].Text)
	}
}

func TestBlockedSenderIsRejected(t *testing.T) {
	router, transport, store := newTestRouter(t)
	_ = store.Block(context.Background(), 111)

	router.HandleUpdate(context.Background(), senderMessage(111, "Alice", "", "let me in"))

	if got := transport.sentTo(testModerationChat); len(got) != 0 {
		t.Fatalf("moderation chat received %d messages, want 0", len(got))
	}
	replies := transport.sentTo(111)
	if len(replies) != 1 || replies[0].Text != textBlockedSender {
		t.Fatalf("sender replies = %+v, want blocked rejection", replies)
	}
}

func TestForwardFailureSendsApologyOnly(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	transport.failSendTo[testModerationChat] = &telegram.APIError{Method: "sendMessage", StatusCode: 400, Description: "chat not found"}

	router.HandleUpdate(context.Background(), senderMessage(111, "Alice", "", "hello"))

	replies := transport.sentTo(111)
	if len(replies) != 1 || replies[0].Text != textForwardConfigApology {
		t.Fatalf("sender replies = %+v, want configuration apology", replies)
	}
}

func TestBlockActionBlocksAndRewritesMessage(t *testing.T) {
	router, transport, store := newTestRouter(t)
	origin := forwardedSuggestion(50, 111, "New suggestion from: Alice\nID: 111\n\nAdd dark mode")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "block_111", origin))

	blocked, _ := store.IsBlocked(context.Background(), 111)
	if !blocked {
		t.Fatalf("IsBlocked(111) = false after block action")
	}
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	edit := transport.edits[0]
	if edit.ChatID != testModerationChat || edit.MessageID != 50 {
		t.Fatalf("edit target = (%d, %d), want (%d, 50)", edit.ChatID, edit.MessageID, testModerationChat)
	}
	if !strings.HasSuffix(edit.Body, "🚫 User blocked by Mod") {
		t.Fatalf("edit body = %q, want blocked suffix", edit.Body)
	}
	if StripStatus(edit.Body) != origin.Text {
		t.Fatalf("original content lost: %q", edit.Body)
	}
	if got := markupData(edit.Markup); len(got) != 1 || got[0] != "unban_111" {
		t.Fatalf("controls after block = %v, want [unban_111]", got)
	}

	// The blocked sender's next message is rejected.
	router.HandleUpdate(context.Background(), senderMessage(111, "Alice", "", "another idea"))
	replies := transport.sentTo(111)
	if len(replies) != 1 || replies[0].Text != textBlockedSender {
		t.Fatalf("sender replies = %+v, want blocked rejection", replies)
	}
}

func TestUnbanActionRestoresDefaultControls(t *testing.T) {
	router, transport, store := newTestRouter(t)
	_ = store.Block(context.Background(), 111)
	body := "New suggestion from: Alice\nID: 111\n\nAdd dark mode" + statusSeparator + "🚫 User blocked by Mod"
	origin := forwardedSuggestion(50, 111, body)

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "unban_111", origin))

	blocked, _ := store.IsBlocked(context.Background(), 111)
	if blocked {
		t.Fatalf("IsBlocked(111) = true after unban action")
	}
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	edit := transport.edits[0]
	if !strings.HasSuffix(edit.Body, "🟢 User unblocked by Mod") {
		t.Fatalf("edit body = %q, want unblocked suffix", edit.Body)
	}
	if StripStatus(edit.Body) != "New suggestion from: Alice\nID: 111\n\nAdd dark mode" {
		t.Fatalf("unban rewrite did not replace the blocked suffix: %q", edit.Body)
	}
	if got := markupData(edit.Markup); len(got) != 2 || got[0] != "reply_111" || got[1] != "block_111" {
		t.Fatalf("controls after unban = %v, want [reply_111 block_111]", got)
	}
}

func TestUnbanActionOnUnknownIDAnswersNotFound(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 111, "body")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "unban_111", origin))

	if len(transport.edits) != 0 {
		t.Fatalf("edits = %d, want 0 for not-found unban", len(transport.edits))
	}
	if len(transport.answers) != 1 || !strings.Contains(transport.answers[0].Text, "was not found") {
		t.Fatalf("answers = %+v, want not-found notice", transport.answers)
	}
}

func TestNonAdminActionIsDenied(t *testing.T) {
	router, transport, store := newTestRouter(t)
	origin := forwardedSuggestion(50, 111, "body")

	router.HandleUpdate(context.Background(), adminCallback(555, "Mallory", "block_111", origin))

	blocked, _ := store.IsBlocked(context.Background(), 111)
	if blocked {
		t.Fatalf("non-admin managed to block")
	}
	if len(transport.answers) != 1 || transport.answers[0].Text != textAdminsOnly || !transport.answers[0].Alert {
		t.Fatalf("answers = %+v, want admins-only alert", transport.answers)
	}
}

func TestMalformedActionTokenIsAnsweredAndDropped(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 111, "body")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "nuke_abc", origin))

	if len(transport.answers) != 1 || transport.answers[0].Text != textInvalidActionID {
		t.Fatalf("answers = %+v, want invalid-token alert", transport.answers)
	}
	if len(transport.edits) != 0 || len(transport.deletes) != 0 {
		t.Fatalf("malformed token caused side effects: edits=%d deletes=%d", len(transport.edits), len(transport.deletes))
	}
}

func TestReplyFlowDeliversAndCleansUp(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", origin))

	prompts := transport.sentTo(testModerationChat)
	if len(prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(prompts))
	}
	if !strings.Contains(prompts[0].Text, "reply to user ID: 222") {
		t.Fatalf("prompt text = %q", prompts[0].Text)
	}
	if got := markupData(prompts[0].Markup); len(got) != 1 || got[0] != "cancel_222" {
		t.Fatalf("prompt controls = %v, want [cancel_222]", got)
	}
	if router.Sessions().Get(testAdminID) == nil {
		t.Fatalf("no open session after reply action")
	}

	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 60, "Mod", "Thanks, fixed!"))

	delivered := transport.sentTo(222)
	if len(delivered) != 1 || delivered[0].Text != "Reply from Administration:\n\nThanks, fixed!" {
		t.Fatalf("delivered = %+v, want prefixed reply", delivered)
	}
	if router.Sessions().Get(testAdminID) != nil {
		t.Fatalf("session still open after delivery")
	}
	if len(transport.deletes) != 2 {
		t.Fatalf("deletes = %+v, want prompt and trigger removed", transport.deletes)
	}
	if len(transport.edits) != 1 || !strings.HasSuffix(transport.edits[0].Body, "✅ Replied by Mod") {
		t.Fatalf("edits = %+v, want replied status", transport.edits)
	}
}

func TestPhotoFromOwnerLeavesSessionAwaitingText(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", origin))
	router.HandleUpdate(context.Background(), telegram.Update{Message: &telegram.Message{
		MessageID: 60,
		Chat:      &telegram.Chat{ID: testModerationChat, Type: "supergroup"},
		From:      &telegram.User{ID: testAdminID, FirstName: "Mod"},
		Caption:   "Thanks, fixed!",
		Photo:     []telegram.PhotoSize{{FileID: "photo1"}},
	}})

	if got := transport.sentTo(222); len(got) != 0 {
		t.Fatalf("photo from session owner delivered %d messages, want 0", len(got))
	}
	sess := router.Sessions().Get(testAdminID)
	if sess == nil || sess.TargetID != 222 {
		t.Fatalf("session = %+v, want still open for target 222", sess)
	}

	// Plain text afterwards completes the reply as usual.
	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 61, "Mod", "Thanks, fixed!"))
	delivered := transport.sentTo(222)
	if len(delivered) != 1 || delivered[0].Text != "Reply from Administration:\n\nThanks, fixed!" {
		t.Fatalf("delivered = %+v, want prefixed reply", delivered)
	}
}

func TestReplySessionNotConsumableByOtherModerator(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", origin))
	router.HandleUpdate(context.Background(), adminMessage(testSecondAdminID, 61, "Other", "unrelated chatter"))

	if got := transport.sentTo(222); len(got) != 0 {
		t.Fatalf("sender 222 received %d messages from non-owner text, want 0", len(got))
	}
	sess := router.Sessions().Get(testAdminID)
	if sess == nil || sess.TargetID != 222 {
		t.Fatalf("session = %+v, want still open for admin %d", sess, testAdminID)
	}
}

func TestReplyDeliveryFailureMarksStatusAndNotifies(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", origin))
	transport.failSendTo[222] = &telegram.APIError{Method: "sendMessage", StatusCode: 403, Description: "bot was blocked by the user"}

	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 60, "Mod", "Thanks, fixed!"))

	if router.Sessions().Get(testAdminID) != nil {
		t.Fatalf("session still open after failed delivery")
	}
	if len(transport.edits) != 1 || !strings.HasSuffix(transport.edits[0].Body, "⚠️ Reply failed by Mod") {
		t.Fatalf("edits = %+v, want reply-failed status", transport.edits)
	}
	var notified bool
	for _, m := range transport.sentTo(testModerationChat) {
		if strings.Contains(m.Text, "Could not send reply to user 222") {
			notified = true
		}
	}
	if !notified {
		t.Fatalf("moderator was not notified about the delivery failure")
	}
}

func TestCancelCommandClosesSessionAndRewritesStatus(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", origin))
	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 60, "Mod", "/cancel"))

	if router.Sessions().Get(testAdminID) != nil {
		t.Fatalf("session still open after /cancel")
	}
	if len(transport.deletes) != 1 {
		t.Fatalf("deletes = %+v, want prompt removed", transport.deletes)
	}
	if len(transport.edits) != 1 || !strings.HasSuffix(transport.edits[0].Body, "❌ Reply cancelled by Mod") {
		t.Fatalf("edits = %+v, want cancelled status", transport.edits)
	}
	if got := transport.sentTo(222); len(got) != 0 {
		t.Fatalf("cancel leaked %d messages to the target", len(got))
	}
}

func TestCancelCommandWithoutSessionRepliesNothingToCancel(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 60, "Mod", "/cancel"))

	replies := transport.sentTo(testModerationChat)
	if len(replies) != 1 || replies[0].Text != textNothingToCancel {
		t.Fatalf("replies = %+v, want %q", replies, textNothingToCancel)
	}
}

func TestCancelControlByNonOwnerIsSilentlyIgnored(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	origin := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", origin))
	prompt := &telegram.Message{
		MessageID: 101,
		Chat:      &telegram.Chat{ID: testModerationChat, Type: "supergroup"},
		Text:      "prompt",
	}
	router.HandleUpdate(context.Background(), adminCallback(testSecondAdminID, "Other", "cancel_222", prompt))

	if router.Sessions().Get(testAdminID) == nil {
		t.Fatalf("owner's session was consumed by another moderator's cancel")
	}
	last := transport.answers[len(transport.answers)-1]
	if last.Text != "" || last.Alert {
		t.Fatalf("non-owner cancel answer = %+v, want empty acknowledgement", last)
	}
}

func TestReplyActionSupersedesOpenSession(t *testing.T) {
	router, transport, _ := newTestRouter(t)
	first := forwardedSuggestion(50, 222, "New suggestion from: Bob\nID: 222\n\nFix the crash")
	second := forwardedSuggestion(51, 333, "New suggestion from: Carol\nID: 333\n\nMore stickers")

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_222", first))
	firstPromptID := router.Sessions().Get(testAdminID).PromptMessageID

	router.HandleUpdate(context.Background(), adminCallback(testAdminID, "Mod", "reply_333", second))

	sess := router.Sessions().Get(testAdminID)
	if sess == nil || sess.TargetID != 333 {
		t.Fatalf("session = %+v, want superseding session for 333", sess)
	}
	var staleDeleted bool
	for _, d := range transport.deletes {
		if d.MessageID == firstPromptID {
			staleDeleted = true
		}
	}
	if !staleDeleted {
		t.Fatalf("superseded prompt %d was not removed; deletes = %+v", firstPromptID, transport.deletes)
	}
}

func TestUnbanCommand(t *testing.T) {
	router, transport, store := newTestRouter(t)
	_ = store.Block(context.Background(), 42)

	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 60, "Mod", "/unban 42"))
	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 61, "Mod", "/unban 42"))
	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 62, "Mod", "/unban"))
	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 63, "Mod", "/unban abc"))

	replies := transport.sentTo(testModerationChat)
	if len(replies) != 4 {
		t.Fatalf("replies = %d, want 4", len(replies))
	}
	if replies[0].Text != "✅ User 42 has been unblocked." {
		t.Fatalf("first unban reply = %q", replies[0].Text)
	}
	if replies[1].Text != "⚠️ User 42 was not found in the block list." {
		t.Fatalf("second unban reply = %q", replies[1].Text)
	}
	if replies[2].Text != textUnbanUsage {
		t.Fatalf("usage reply = %q", replies[2].Text)
	}
	if replies[3].Text != textUnbanInvalidID {
		t.Fatalf("invalid id reply = %q", replies[3].Text)
	}

	blocked, _ := store.IsBlocked(context.Background(), 42)
	if blocked {
		t.Fatalf("IsBlocked(42) = true after /unban")
	}
}

func TestUnbanCommandFromNonAdminIsTreatedAsSuggestion(t *testing.T) {
	router, transport, store := newTestRouter(t)
	_ = store.Block(context.Background(), 42)

	router.HandleUpdate(context.Background(), senderMessage(555, "Eve", "", "/unban 42"))

	blocked, _ := store.IsBlocked(context.Background(), 42)
	if !blocked {
		t.Fatalf("non-admin /unban mutated the block list")
	}
	// The text lands in the moderation chat as ordinary content.
	if got := transport.sentTo(testModerationChat); len(got) != 1 {
		t.Fatalf("moderation chat received %d messages, want 1", len(got))
	}
}

func TestAdminFreeTextWithoutSessionIsDropped(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	router.HandleUpdate(context.Background(), adminMessage(testAdminID, 60, "Mod", "just chatting"))

	if len(transport.sent) != 0 {
		t.Fatalf("sent = %+v, want nothing (moderators do not submit suggestions)", transport.sent)
	}
}

func TestPhotoSuggestionIsCopiedWithCaptionHeader(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	router.HandleUpdate(context.Background(), telegram.Update{Message: &telegram.Message{
		MessageID: 1,
		Chat:      &telegram.Chat{ID: 111, Type: "private"},
		From:      &telegram.User{ID: 111, FirstName: "Alice"},
		Caption:   "screenshot of the bug",
		Photo:     []telegram.PhotoSize{{FileID: "photo1"}},
	}})

	forwarded := transport.sentTo(testModerationChat)
	if len(forwarded) != 1 {
		t.Fatalf("moderation chat received %d messages, want 1", len(forwarded))
	}
	want := "New suggestion from: Alice\nID: 111\n\nscreenshot of the bug"
	if forwarded[0].Text != want {
		t.Fatalf("caption = %q, want %q", forwarded[0].Text, want)
	}
}
