package chat

import (
	"errors"
	"fmt"
)

// ErrNoMention is returned when the incoming message contains no valid
// @AgentName mention.
var ErrNoMention = errors.New("no agent mentioned in message; mention an agent using @AgentName")

// AgentNotFoundError is returned when a mentioned agent does not exist in
// the directory. It carries the attempted name for the client.
type AgentNotFoundError struct {
	Name string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent '%s' not found", e.Name)
}
