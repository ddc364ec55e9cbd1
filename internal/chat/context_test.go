package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chau0/multimind-chat/internal/models"
)

func TestBuildSkipsBlankTurns(t *testing.T) {
	st := newFakeStore()
	now := time.Now()
	st.messages = []models.Message{
		{ID: 1, SessionID: "s1", Content: "hello", CreatedAt: now},
		{ID: 2, SessionID: "s1", Content: "   ", CreatedAt: now},
		{ID: 3, SessionID: "s1", Content: "world", CreatedAt: now},
	}

	builder := NewContextBuilder(st, 10)
	turns, err := builder.Build(context.Background(), "s1")
	require.NoError(t, err)

	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "world", turns[1].Content)
}

func TestBuildEmptySession(t *testing.T) {
	builder := NewContextBuilder(newFakeStore(), 10)

	turns, err := builder.Build(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestBuildBoundsWindow(t *testing.T) {
	st := newFakeStore()
	for i := 0; i < 25; i++ {
		st.messages = append(st.messages, models.Message{
			ID: int64(i + 1), SessionID: "s1", Content: "m", CreatedAt: time.Now(),
		})
	}

	builder := NewContextBuilder(st, 10)
	turns, err := builder.Build(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, turns, 10)
}
