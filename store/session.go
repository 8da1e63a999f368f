package store

import "time"

// Message roles. The session store only ever holds user and assistant
// turns; system prompts are assembled at request time and never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn within a conversation.
type Message struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents a single conversation thread. Messages are
// append-only and chronological; LastActivity is bumped on every
// touch or write and drives idle eviction.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time
	Messages     []Message
}

// SessionInfo is the read-only summary returned by SessionInfo.
type SessionInfo struct {
	ID           string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}
