package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chau0/multimind-chat/internal/chat"
	"github.com/chau0/multimind-chat/internal/metrics"
)

// SendMessageRequest represents the inbound chat message.
type SendMessageRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id"`
}

// SendMessageResponse represents the generated reply.
type SendMessageResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	AgentID   int64     `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptMessage represents one message in a session transcript.
type TranscriptMessage struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	SessionID string    `json:"session_id"`
	AgentID   *int64    `json:"agent_id"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// SendMessage handles posting a chat message and returns the agent reply.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A chunked body has no Content-Length for the size middleware
		// to check up front, so the cap can trip mid-decode.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Schema validation: both fields are required and non-empty.
	if strings.TrimSpace(req.Content) == "" {
		h.Error(w, http.StatusUnprocessableEntity, "content is required")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		h.Error(w, http.StatusUnprocessableEntity, "session_id is required")
		return
	}

	result, err := h.chat.Send(r.Context(), req.SessionID, req.Content)
	if err != nil {
		var notFound *chat.AgentNotFoundError
		switch {
		case errors.Is(err, chat.ErrNoMention):
			metrics.MessagesProcessed.WithLabelValues("rejected").Inc()
			h.Error(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &notFound):
			metrics.MessagesProcessed.WithLabelValues("rejected").Inc()
			h.Error(w, http.StatusBadRequest, notFound.Error())
		default:
			metrics.MessagesProcessed.WithLabelValues("error").Inc()
			h.logger.Error().
				Err(err).
				Str("session_id", req.SessionID).
				Msg("chat pipeline failed")
			h.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	metrics.MessagesProcessed.WithLabelValues("ok").Inc()
	h.JSON(w, http.StatusOK, SendMessageResponse{
		ID:        result.ReplyID,
		Content:   result.Content,
		AgentID:   result.AgentID,
		AgentName: result.AgentName,
		SessionID: result.SessionID,
		Timestamp: result.Timestamp,
	})
}

// GetSessionMessages handles fetching a session's transcript in
// chronological order.
func (h *Handler) GetSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	messages, err := h.store.ListSessionMessages(r.Context(), sessionID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to list session messages")
		h.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	resp := make([]TranscriptMessage, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, TranscriptMessage{
			ID:        m.ID,
			Content:   m.Content,
			SessionID: m.SessionID,
			AgentID:   m.AgentID,
			IsUser:    m.IsUser(),
			Timestamp: m.CreatedAt,
		})
	}
	h.JSON(w, http.StatusOK, resp)
}
