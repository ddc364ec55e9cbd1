package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chau0/multimind-chat/internal/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const pgAgentColumns = `id, name, description, system_prompt, display_name, avatar, color, created_at, updated_at`

func scanPgAgent(row pgx.Row) (*models.Agent, error) {
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

// CreateAgent creates a new agent record.
func (s *PostgresStore) CreateAgent(ctx context.Context, seed models.AgentSeed) (*models.Agent, error) {
	return scanPgAgent(s.pool.QueryRow(ctx, `
		INSERT INTO agents (name, description, system_prompt, display_name, avatar, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+pgAgentColumns+`
	`, seed.Name, seed.Description, seed.SystemPrompt, seed.DisplayName, seed.Avatar, seed.Color))
}

// GetAgentByID retrieves an agent by ID.
func (s *PostgresStore) GetAgentByID(ctx context.Context, id int64) (*models.Agent, error) {
	agent, err := scanPgAgent(s.pool.QueryRow(ctx, `
		SELECT `+pgAgentColumns+` FROM agents WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// GetAgentByName retrieves an agent by its exact, case-sensitive name.
func (s *PostgresStore) GetAgentByName(ctx context.Context, name string) (*models.Agent, error) {
	agent, err := scanPgAgent(s.pool.QueryRow(ctx, `
		SELECT `+pgAgentColumns+` FROM agents WHERE name = $1
	`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

// ListAgents retrieves all agents ordered by ID.
func (s *PostgresStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pgAgentColumns+` FROM agents ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		agent, err := scanPgAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

// EnsureSession creates a session row or fetches the existing one.
// A unique violation from a concurrent insert is recovered by refetch.
func (s *PostgresStore) EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_sessions (id) VALUES ($1)
		RETURNING id, created_at
	`, sessionID).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return s.getSession(ctx, sessionID)
		}
		return nil, err
	}
	return session, nil
}

func (s *PostgresStore) getSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, created_at FROM chat_sessions WHERE id = $1
	`, sessionID).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// AppendMessage ensures the session exists and inserts the message inside
// a single transaction. Either both rows are durable or neither is.
func (s *PostgresStore) AppendMessage(ctx context.Context, sessionID, content string, agentID *int64) (*models.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat_sessions (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, sessionID); err != nil {
		return nil, err
	}

	msg := &models.Message{}
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (content, session_id, agent_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, session_id, agent_id, created_at
	`, content, sessionID, agentID).Scan(
		&msg.ID,
		&msg.Content,
		&msg.SessionID,
		&msg.AgentID,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

// RecentHistory fetches the newest limit messages for a session joined
// with agent names, then reverses them into chronological order.
func (s *PostgresStore) RecentHistory(ctx context.Context, sessionID string, limit int) ([]models.Turn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.content, a.name, m.created_at
		FROM messages m
		LEFT JOIN agents a ON a.id = m.agent_id
		WHERE m.session_id = $1
		ORDER BY m.id DESC
		LIMIT $2
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
func (s *PostgresStore) ListSessionMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, content, session_id, agent_id, created_at
		FROM messages
		WHERE session_id = $1
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
