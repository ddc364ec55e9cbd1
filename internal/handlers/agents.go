package handlers

import (
	"net/http"

	"github.com/chau0/multimind-chat/internal/models"
)

// AgentResponse represents an agent in API responses.
type AgentResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	Color        string `json:"color,omitempty"`
}

func toAgentResponse(a models.Agent) AgentResponse {
	return AgentResponse{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		SystemPrompt: a.SystemPrompt,
		DisplayName:  a.DisplayName,
		Avatar:       a.Avatar,
		Color:        a.Color,
	}
}

// ListAgents handles fetching the agent directory.
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.store.ListAgents(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list agents")
		h.Error(w, http.StatusInternalServerError, "failed to fetch agents")
		return
	}

	resp := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		resp = append(resp, toAgentResponse(a))
	}
	h.JSON(w, http.StatusOK, resp)
}
