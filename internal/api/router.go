package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chau0/multimind-chat/internal/api/middleware"
	"github.com/chau0/multimind-chat/internal/chat"
	"github.com/chau0/multimind-chat/internal/handlers"
	"github.com/chau0/multimind-chat/internal/store"
)

// maxBodyBytes caps request bodies. Message content is unbounded in the
// data model; this is transport hygiene, not a content limit.
const maxBodyBytes = 1 << 20 // 1 MiB

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, st store.DataStore, chatService *chat.Service) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.RequireJSON)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - browser clients call from anywhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(st, chatService, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", h.Health)
	r.Get("/agents", h.ListAgents)

	r.Route("/chat", func(r chi.Router) {
		r.Post("/messages", h.SendMessage)
		r.Get("/sessions/{session_id}/messages", h.GetSessionMessages)
	})

	return r
}
