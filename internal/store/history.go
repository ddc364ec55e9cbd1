package store

import (
	"time"

	"github.com/chau0/multimind-chat/internal/models"
)

// userAuthorName labels human-authored turns in assembled context.
const userAuthorName = "User"

// newTurn builds a Turn from a scanned history row. A null agent name
// means the message was human-authored.
func newTurn(content string, agentName *string, createdAt time.Time) models.Turn {
	if agentName == nil {
		return models.Turn{
			AuthorKind: models.AuthorUser,
			AuthorName: userAuthorName,
			Content:    content,
			CreatedAt:  createdAt,
		}
	}
	return models.Turn{
		AuthorKind: models.AuthorAgent,
		AuthorName: *agentName,
		Content:    content,
		CreatedAt:  createdAt,
	}
}

// reverseTurns flips a newest-first result set into chronological order.
func reverseTurns(turns []models.Turn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
