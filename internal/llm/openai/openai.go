package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/chau0/multimind-chat/internal/llm"
)

// Sampling parameters are fixed per deployment rather than negotiated
// per request.
const (
	maxTokens        = 500
	temperature      = 0.8
	presencePenalty  = 0.1
	frequencyPenalty = 0.1
)

// Provider implements llm.Provider against the OpenAI chat completions
// API, including Azure and other OpenAI-compatible endpoints via
// option.WithBaseURL.
type Provider struct {
	client *openai.Client
	model  string
}

// New creates a new Provider.
func New(opts ...option.RequestOption) *Provider {
	client := openai.NewClient(opts...)
	return &Provider{
		client: &client,
		model:  openai.ChatModelGPT4o,
	}
}

// SetModel sets the model to use.
func (p *Provider) SetModel(model string) {
	p.model = model
}

// Chat sends the message list to the completions API and returns the
// trimmed reply text.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case llm.RoleUser:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		case llm.RoleAssistant:
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			return "", fmt.Errorf("unknown role: %s", msg.Role)
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:         openaiMessages,
		Model:            p.model,
		MaxTokens:        openai.Int(maxTokens),
		Temperature:      openai.Float(temperature),
		PresencePenalty:  openai.Float(presencePenalty),
		FrequencyPenalty: openai.Float(frequencyPenalty),
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
