package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/chau0/multimind-chat/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/multimind.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/multimind.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		system_prompt TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS chat_sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		session_id TEXT NOT NULL REFERENCES chat_sessions(id),
		agent_id INTEGER REFERENCES agents(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateAgent creates a new agent record.
func (s *SQLiteStore) CreateAgent(ctx context.Context, seed models.AgentSeed) (*models.Agent, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (name, description, system_prompt, display_name, avatar, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, seed.Name, seed.Description, seed.SystemPrompt, seed.DisplayName, seed.Avatar, seed.Color, now, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetAgentByID(ctx, id)
}

const agentColumns = `id, name, description, system_prompt, display_name, avatar, color, created_at, updated_at`

func scanAgent(row interface{ Scan(...any) error }) (*models.Agent, error) {
	agent := &models.Agent{}
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Description,
		&agent.SystemPrompt,
		&agent.DisplayName,
		&agent.Avatar,
		&agent.Color,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// GetAgentByID retrieves an agent by ID.
func (s *SQLiteStore) GetAgentByID(ctx context.Context, id int64) (*models.Agent, error) {
	agent, err := scanAgent(s.db.QueryRowContext(ctx, `
		SELECT `+agentColumns+` FROM agents WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// GetAgentByName retrieves an agent by its exact, case-sensitive name.
func (s *SQLiteStore) GetAgentByName(ctx context.Context, name string) (*models.Agent, error) {
	// SQLite TEXT comparison is case-sensitive unless COLLATE NOCASE is
	// declared, so the default matches the mention contract.
	agent, err := scanAgent(s.db.QueryRowContext(ctx, `
		SELECT `+agentColumns+` FROM agents WHERE name = ?
	`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// ListAgents retrieves all agents ordered by ID.
func (s *SQLiteStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+agentColumns+` FROM agents ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// EnsureSession creates a session row or fetches the existing one.
// A constraint violation from a concurrent insert is recovered by refetch.
func (s *SQLiteStore) EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, created_at) VALUES (?, ?)
	`, sessionID, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return s.getSession(ctx, sessionID)
		}
		return nil, err
	}

	return &models.ChatSession{ID: sessionID, CreatedAt: now}, nil
}

func (s *SQLiteStore) getSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM chat_sessions WHERE id = ?
	`, sessionID).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// AppendMessage ensures the session exists and inserts the message inside
// a single transaction. Either both rows are durable or neither is.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID, content string, agentID *int64) (*models.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO chat_sessions (id, created_at) VALUES (?, ?)
	`, sessionID, now); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (content, session_id, agent_id, created_at)
		VALUES (?, ?, ?, ?)
	`, content, sessionID, agentID, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Message{
		ID:        id,
		Content:   content,
		SessionID: sessionID,
		AgentID:   agentID,
		CreatedAt: now,
	}, nil
}

// RecentHistory fetches the newest limit messages for a session joined
// with agent names, then reverses them into chronological order.
func (s *SQLiteStore) RecentHistory(ctx context.Context, sessionID string, limit int) ([]models.Turn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.content, a.name, m.created_at
		FROM messages m
		LEFT JOIN agents a ON a.id = m.agent_id
		WHERE m.session_id = ?
		ORDER BY m.id DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var content string
		var agentName *string
		var createdAt time.Time
		if err := rows.Scan(&content, &agentName, &createdAt); err != nil {
			return nil, err
		}
		turns = append(turns, newTurn(content, agentName, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reverseTurns(turns)
	return turns, nil
}

// ListSessionMessages retrieves the full transcript in insertion order.
func (s *SQLiteStore) ListSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, session_id, agent_id, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.SessionID, &msg.AgentID, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
