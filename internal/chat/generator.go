package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chau0/multimind-chat/internal/llm"
	"github.com/chau0/multimind-chat/internal/metrics"
	"github.com/chau0/multimind-chat/internal/models"
)

// contextWindow is the number of trailing turns fed to the model.
const contextWindow = 8

// Generator produces agent replies. It is stateless; every call is
// independent. Provider failures never escape: the caller always gets a
// usable reply string, degraded to a persona-flavored apology when the
// provider is down.
type Generator struct {
	provider llm.Provider
	logger   zerolog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.Provider, logger zerolog.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// Generate builds the prompt for agent and asks the provider for a reply.
func (g *Generator) Generate(ctx context.Context, agent *models.Agent, history []models.Turn, userMessage string) string {
	messages := buildMessages(agent, history, userMessage)

	metrics.LLMRequests.Inc()
	start := time.Now()
	reply, err := g.provider.Chat(ctx, messages)
	metrics.LLMLatency.Observe(time.Since(start).Seconds())

	if err != nil || reply == "" {
		g.logger.Error().
			Err(err).
			Str("agent", agent.Name).
			Msg("LLM generation failed, serving fallback reply")
		metrics.LLMFallbacks.Inc()
		return fallbackReply(agent)
	}

	g.logger.Info().
		Str("agent", agent.Name).
		Dur("latency", time.Since(start)).
		Msg("generated response")
	return reply
}

// buildMessages composes the ordered message list: system instruction,
// then the trailing context window, then the current user message.
func buildMessages(agent *models.Agent, history []models.Turn, userMessage string) []llm.Message {
	messages := make([]llm.Message, 0, contextWindow+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemInstruction(agent),
	})

	if len(history) > contextWindow {
		history = history[len(history)-contextWindow:]
	}
	for _, turn := range history {
		switch turn.AuthorKind {
		case models.AuthorUser:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.Content})
		case models.AuthorAgent:
			content := turn.Content
			if turn.AuthorName != agent.Name {
				// Another agent spoke; keep its identity visible to the model.
				content = turn.AuthorName + ": " + content
			}
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: content})
		}
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})
}

// systemInstruction resolves the agent's effective persona: the explicit
// system prompt if configured, otherwise one synthesized from name and
// description.
func systemInstruction(agent *models.Agent) string {
	if agent.SystemPrompt != "" {
		return agent.SystemPrompt
	}
	return fmt.Sprintf("You are %s, %s", agent.Name, agent.Description)
}

// fallbackReply is the failure-containment boundary for provider errors.
// The orchestrator treats it as a successful, if degraded, response.
func fallbackReply(agent *models.Agent) string {
	return fmt.Sprintf(
		"I apologize, but I'm having trouble responding right now. Please try again in a moment. - %s",
		agent.Name,
	)
}
