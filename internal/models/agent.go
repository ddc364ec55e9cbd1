package models

import "time"

// Agent represents a chat persona addressable via @Name mentions.
type Agent struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"` // unique mention key, case-sensitive
	Description  string    `json:"description"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Color        string    `json:"color,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AgentSeed holds the fields needed to create an agent.
type AgentSeed struct {
	Name         string
	Description  string
	SystemPrompt string
	DisplayName  string
	Avatar       string
	Color        string
}
