package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore is an in-memory registry of conversation sessions keyed
// by id. It is purely process-scoped: a restart loses all sessions.
//
// A single coarse mutex guards the whole map and every record in it.
// Sessions are numerous-but-small and every operation is short and
// non-blocking, so one lock keeps a sweep and a concurrent append
// strictly ordered without per-record locking.
type SessionStore struct {
	mu            sync.Mutex
	sessions      map[string]*Session
	historyWindow int
}

// NewSessionStore creates an empty store. historyWindow is the number of
// most-recent messages returned to callers; stored history is trimmed
// back to the window once it grows past twice the window.
func NewSessionStore(historyWindow int) *SessionStore {
	return &SessionStore{
		sessions:      make(map[string]*Session),
		historyWindow: historyWindow,
	}
}

// CreateSession creates a new session or touches an existing one.
// An empty id asks the store to generate a fresh unique id. The
// returned id is always valid.
func (s *SessionStore) CreateSession(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createSessionLocked(id)
}

func (s *SessionStore) createSessionLocked(id string) string {
	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			sess.LastActivity = time.Now().UTC()
			return id
		}
	}
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	s.sessions[id] = &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
	slog.Info("created new session", "session", id)
	return id
}

// AddMessage appends a message to a session's history, creating the
// session if it does not exist yet. Once the stored history exceeds
// twice the window, only the most recent window of messages is kept —
// oldest entries go first, never the newest.
func (s *SessionStore) AddMessage(id string, msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.createSessionLocked(id)
		sess = s.sessions[id]
	}
	sess.Messages = append(sess.Messages, msg)
	sess.LastActivity = time.Now().UTC()

	if len(sess.Messages) > s.historyWindow*2 {
		trimmed := make([]Message, s.historyWindow)
		copy(trimmed, sess.Messages[len(sess.Messages)-s.historyWindow:])
		sess.Messages = trimmed
	}
}

// AddUserMessage appends a user turn to the session history.
func (s *SessionStore) AddUserMessage(id, content string) {
	s.AddMessage(id, Message{Role: RoleUser, Content: content})
}

// AddAssistantMessage appends an assistant turn to the session history.
func (s *SessionStore) AddAssistantMessage(id, content string) {
	s.AddMessage(id, Message{Role: RoleAssistant, Content: content})
}

// ConversationHistory returns up to historyWindow of the most recent
// messages, oldest first. Unknown sessions yield an empty slice. The
// result is a copy and safe to hold after the call.
func (s *SessionStore) ConversationHistory(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	msgs := sess.Messages
	if len(msgs) > s.historyWindow {
		msgs = msgs[len(msgs)-s.historyWindow:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// SessionInfo returns a summary of the session, or nil if it does not exist.
func (s *SessionStore) SessionInfo(id string) *SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return &SessionInfo{
		ID:           sess.ID,
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		MessageCount: len(sess.Messages),
	}
}

// SessionExists reports whether the session is currently tracked.
func (s *SessionStore) SessionExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// ClearSession removes a session and reports whether it existed.
func (s *SessionStore) ClearSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	slog.Info("cleared session", "session", id)
	return true
}

// ActiveSessionCount returns the number of currently tracked sessions.
// The router uses it for admission control; the store itself never
// rejects anything.
func (s *SessionStore) ActiveSessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CleanupExpiredSessions removes every session idle longer than timeout
// and returns how many were removed. A single linear pass: cardinality
// is bounded by the concurrent-session cap, so no expiry index is kept.
func (s *SessionStore) CleanupExpiredSessions(timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-timeout)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("cleaned up expired sessions", "count", removed)
	}
	return removed
}

// touch backdates a session's LastActivity. Test hook for exercising
// expiry without sleeping.
func (s *SessionStore) touch(id string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.LastActivity = t
	}
}
