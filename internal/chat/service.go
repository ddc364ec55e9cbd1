package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chau0/multimind-chat/internal/mention"
	"github.com/chau0/multimind-chat/internal/store"
)

// Result is the composed outcome of one completed chat turn.
type Result struct {
	ReplyID   int64
	Content   string
	AgentID   int64
	AgentName string
	SessionID string
	Timestamp time.Time
}

// Service orchestrates one request/response cycle:
// parse mention, resolve agent, build context, generate, persist, respond.
// Validation failures surface as ErrNoMention or AgentNotFoundError; any
// other error is an internal failure. A reply that was generated is never
// silently dropped: if persistence fails afterwards, the error propagates.
type Service struct {
	store     store.DataStore
	builder   *ContextBuilder
	generator *Generator
	logger    zerolog.Logger
}

// NewService creates a Service.
func NewService(st store.DataStore, builder *ContextBuilder, generator *Generator, logger zerolog.Logger) *Service {
	return &Service{
		store:     st,
		builder:   builder,
		generator: generator,
		logger:    logger,
	}
}

// Send runs the full pipeline for one inbound message.
func (s *Service) Send(ctx context.Context, sessionID, content string) (*Result, error) {
	name, ok := mention.Parse(content)
	if !ok {
		return nil, ErrNoMention
	}

	agent, err := s.store.GetAgentByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve agent %q: %w", name, err)
	}
	if agent == nil {
		return nil, &AgentNotFoundError{Name: name}
	}

	// Empty history is valid for a new session.
	history, err := s.builder.Build(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("build context for session %q: %w", sessionID, err)
	}

	// Cannot fail; provider errors are absorbed into a fallback reply.
	reply := s.generator.Generate(ctx, agent, history, content)

	// The user message is persisted before the reply so a history read
	// immediately after always shows user-then-agent ordering.
	if _, err := s.store.AppendMessage(ctx, sessionID, content, nil); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	replyMsg, err := s.store.AppendMessage(ctx, sessionID, reply, &agent.ID)
	if err != nil {
		return nil, fmt.Errorf("persist agent reply: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("agent", agent.Name).
		Int64("reply_id", replyMsg.ID).
		Msg("chat turn completed")

	return &Result{
		ReplyID:   replyMsg.ID,
		Content:   replyMsg.Content,
		AgentID:   agent.ID,
		AgentName: agent.Name,
		SessionID: sessionID,
		Timestamp: replyMsg.CreatedAt,
	}, nil
}
