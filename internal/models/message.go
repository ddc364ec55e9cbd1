package models

import "time"

// ChatSession groups messages under an opaque, client-supplied key.
// Sessions are created implicitly on first use.
type ChatSession struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a single persisted chat message. AgentID is nil for
// human-authored messages. Ordering within a session is defined by ID,
// not wall-clock time.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	SessionID string    `json:"session_id"`
	AgentID   *int64    `json:"agent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUser reports whether the message was authored by the human user.
func (m Message) IsUser() bool {
	return m.AgentID == nil
}

// AuthorKind identifies who produced a history turn.
type AuthorKind string

const (
	AuthorUser  AuthorKind = "user"
	AuthorAgent AuthorKind = "agent"
)

// Turn is a fully-materialized history record: author identity is resolved
// at read time so downstream consumers never re-parse message text to
// recover who spoke.
type Turn struct {
	AuthorKind AuthorKind `json:"author_kind"`
	AuthorName string     `json:"author_name"` // agent name, or "User"
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}
