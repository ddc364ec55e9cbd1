package store

import (
	"context"

	"github.com/chau0/multimind-chat/internal/models"
)

// DefaultHistoryLimit bounds RecentHistory when callers pass limit <= 0.
const DefaultHistoryLimit = 50

// DataStore defines the interface for persistent storage of agents,
// sessions and messages. Both PostgresStore and SQLiteStore implement
// this interface. Lookup methods return (nil, nil) when the row does not
// exist; absence is a normal outcome, not an error. Every returned value
// is a detached snapshot; nothing holds a live reference into the store.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Agent directory. Name lookup is exact and case-sensitive.
	CreateAgent(ctx context.Context, seed models.AgentSeed) (*models.Agent, error)
	GetAgentByID(ctx context.Context, id int64) (*models.Agent, error)
	GetAgentByName(ctx context.Context, name string) (*models.Agent, error)
	ListAgents(ctx context.Context) ([]models.Agent, error)

	// Conversation store. EnsureSession is create-or-fetch: a uniqueness
	// violation from a concurrent first use is recovered by refetching the
	// existing row, never surfaced to the caller. AppendMessage ensures
	// the session and inserts the message in one transaction.
	EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AppendMessage(ctx context.Context, sessionID, content string, agentID *int64) (*models.Message, error)

	// RecentHistory returns the newest limit messages for a session as
	// fully-resolved turns, reordered oldest-first.
	RecentHistory(ctx context.Context, sessionID string, limit int) ([]models.Turn, error)

	// ListSessionMessages returns the full transcript, oldest-first.
	ListSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error)
}
