package moderation

import (
	"sync"
	"time"
)

// ReplySession binds a moderator's next free-text message in the moderation
// chat to the sender a suggestion came from. Sessions are transient; they
// live only in memory and end on delivery, cancellation, or supersession.
type ReplySession struct {
	ID              string
	AdminID         int64
	TargetID        int64
	ChatID          int64
	PromptMessageID int64
	OriginMessageID int64
	OriginHasPhoto  bool
	OriginBody      string
	CreatedAt       time.Time
}

// Sessions maps moderator id to at most one open reply session. All access
// goes through the mutex so a cancel and an incoming reply text racing each
// other resolve deterministically: the first take consumes the session, the
// second sees none.
type Sessions struct {
	mu   sync.Mutex
	open map[int64]*ReplySession
}

func NewSessions() *Sessions {
	return &Sessions{open: make(map[int64]*ReplySession)}
}

// Start opens a session for sess.AdminID and returns the session it
// superseded, if any. Policy: a new reply action while one is open replaces
// the old session; the caller removes the orphaned prompt artifact.
func (s *Sessions) Start(sess *ReplySession) *ReplySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.open[sess.AdminID]
	s.open[sess.AdminID] = sess
	return prev
}

// Get returns the open session for adminID without consuming it.
func (s *Sessions) Get(adminID int64) *ReplySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[adminID]
}

// Consume atomically takes the session owned by adminID if it was opened in
// chatID. A mismatched chat (or no session) returns nil and leaves any open
// session untouched, so events from unrelated chats cannot steal or disturb
// it. The session is gone from the map before the caller attempts delivery.
func (s *Sessions) Consume(adminID, chatID int64) *ReplySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.open[adminID]
	if sess == nil || sess.ChatID != chatID {
		return nil
	}
	delete(s.open, adminID)
	return sess
}

// Len reports the number of open sessions, for logging.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}
