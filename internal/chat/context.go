package chat

import (
	"context"
	"strings"

	"github.com/chau0/multimind-chat/internal/models"
	"github.com/chau0/multimind-chat/internal/store"
)

// defaultHistoryWindow is how many raw messages are pulled when building
// model context. Tunable policy, not contract; it only has to be finite.
const defaultHistoryWindow = 10

// ContextBuilder assembles the bounded, most-recent slice of a session's
// history for the response generator.
type ContextBuilder struct {
	store  store.DataStore
	window int
}

// NewContextBuilder creates a ContextBuilder. window <= 0 falls back to
// the default.
func NewContextBuilder(st store.DataStore, window int) *ContextBuilder {
	if window <= 0 {
		window = defaultHistoryWindow
	}
	return &ContextBuilder{store: st, window: window}
}

// Build returns the session's recent turns, oldest-first. An empty result
// is valid: new sessions have no history. Turns with blank content are
// skipped rather than fatal.
func (b *ContextBuilder) Build(ctx context.Context, sessionID string) ([]models.Turn, error) {
	turns, err := b.store.RecentHistory(ctx, sessionID, b.window)
	if err != nil {
		return nil, err
	}

	out := turns[:0]
	for _, t := range turns {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
