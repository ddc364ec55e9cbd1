package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/chau0/multimind-chat/internal/chat"
	"github.com/chau0/multimind-chat/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store  store.DataStore
	chat   *chat.Service
	logger zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(st store.DataStore, chatService *chat.Service, logger zerolog.Logger) *Handler {
	return &Handler{store: st, chat: chatService, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response. The detail field carries a
// human-readable reason; internal specifics never leak here.
func (h *Handler) Error(w http.ResponseWriter, status int, detail string) {
	h.JSON(w, status, map[string]string{"detail": detail})
}
