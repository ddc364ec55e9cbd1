package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chau0/multimind-chat/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func seedAgent(t *testing.T, s *SQLiteStore, name, description string) *models.Agent {
	t.Helper()
	agent, err := s.CreateAgent(context.Background(), models.AgentSeed{
		Name:        name,
		Description: description,
	})
	require.NoError(t, err)
	return agent
}

func TestAgentLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := seedAgent(t, s, "Echo", "echoes your message")

	byName, err := s.GetAgentByName(ctx, "Echo")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "echoes your message", byName.Description)

	byID, err := s.GetAgentByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Echo", byID.Name)

	// Name matching is exact and case-sensitive.
	miss, err := s.GetAgentByName(ctx, "echo")
	require.NoError(t, err)
	assert.Nil(t, miss)

	miss, err = s.GetAgentByName(ctx, "Ghost")
	require.NoError(t, err)
	assert.Nil(t, miss, "not-found is a nil result, not an error")
}

func TestListAgentsOrderedByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedAgent(t, s, "Assistant", "a")
	seedAgent(t, s, "Coder", "b")
	seedAgent(t, s, "Writer", "c")

	agents, err := s.ListAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 3)
	assert.Equal(t, "Assistant", agents[0].Name)
	assert.Equal(t, "Writer", agents[2].Name)
	assert.Less(t, agents[0].ID, agents[1].ID)
}

func TestEnsureSessionIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := s.EnsureSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM chat_sessions WHERE id = 's1'`).Scan(&count))
	assert.Equal(t, 1, count, "exactly one durable session row")
}

func TestEnsureSessionConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sessionID := uuid.NewString()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	sessions := make([]*models.ChatSession, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = s.EnsureSession(ctx, sessionID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "worker %d", i)
		require.NotNil(t, sessions[i], "worker %d", i)
		assert.Equal(t, sessionID, sessions[i].ID)
	}

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM chat_sessions WHERE id = ?`, sessionID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestAppendMessageRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	agent := seedAgent(t, s, "Assistant", "helpful")

	user, err := s.AppendMessage(ctx, "s1", "hello there", nil)
	require.NoError(t, err)
	assert.Positive(t, user.ID)
	assert.Nil(t, user.AgentID)
	assert.True(t, user.IsUser())

	reply, err := s.AppendMessage(ctx, "s1", "hi, how can I help?", &agent.ID)
	require.NoError(t, err)
	assert.Greater(t, reply.ID, user.ID)
	assert.False(t, reply.IsUser())

	messages, err := s.ListSessionMessages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello there", messages[0].Content)
	assert.Equal(t, "s1", messages[0].SessionID)
	assert.Equal(t, "hi, how can I help?", messages[1].Content)
	require.NotNil(t, messages[1].AgentID)
	assert.Equal(t, agent.ID, *messages[1].AgentID)
}

func TestAppendMessageCreatesSessionImplicitly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AppendMessage(ctx, "brand-new", "first message", nil)
	require.NoError(t, err)

	session, err := s.getSession(ctx, "brand-new")
	require.NoError(t, err)
	require.NotNil(t, session)
}

func TestRecentHistoryChronologicalWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	agent := seedAgent(t, s, "Assistant", "helpful")

	contents := []string{"m1", "m2", "m3", "m4", "m5"}
	for i, c := range contents {
		var agentID *int64
		if i%2 == 1 {
			agentID = &agent.ID
		}
		_, err := s.AppendMessage(ctx, "s1", c, agentID)
		require.NoError(t, err)
	}

	// Full window: ascending, no gaps or duplicates.
	all, err := s.RecentHistory(ctx, "s1", 50)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, turn := range all {
		assert.Equal(t, contents[i], turn.Content)
	}
	assert.Equal(t, models.AuthorUser, all[0].AuthorKind)
	assert.Equal(t, "User", all[0].AuthorName)
	assert.Equal(t, models.AuthorAgent, all[1].AuthorKind)
	assert.Equal(t, "Assistant", all[1].AuthorName)

	// Bounded window keeps the newest rows, still oldest-first.
	recent, err := s.RecentHistory(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "m3", recent[0].Content)
	assert.Equal(t, "m5", recent[2].Content)
}

func TestRecentHistoryIsolatesSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AppendMessage(ctx, "a", "in session a", nil)
	require.NoError(t, err)
	_, err = s.AppendMessage(ctx, "b", "in session b", nil)
	require.NoError(t, err)

	turns, err := s.RecentHistory(ctx, "a", 50)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "in session a", turns[0].Content)
}

func TestListSessionMessagesEmpty(t *testing.T) {
	s := newTestStore(t)

	messages, err := s.ListSessionMessages(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
