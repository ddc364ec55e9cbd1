// Command seed inserts the default agent roster. Agents that already
// exist are left untouched, so re-running is safe.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/chau0/multimind-chat/internal/config"
	"github.com/chau0/multimind-chat/internal/models"
	"github.com/chau0/multimind-chat/internal/store"
)

var defaultAgents = []models.AgentSeed{
	{
		Name:        "Assistant",
		Description: "A helpful general-purpose assistant.",
		DisplayName: "Assistant",
		Avatar:      "🤖",
		Color:       "bg-blue-500",
	},
	{
		Name:         "Coder",
		Description:  "A programming expert that writes clean, efficient code.",
		SystemPrompt: "You are Coder, a programming expert. Answer with working code and brief explanations.",
		DisplayName:  "Coder",
		Avatar:       "💻",
		Color:        "bg-green-500",
	},
	{
		Name:         "Writer",
		Description:  "A creative writing specialist focused on clarity and structure.",
		SystemPrompt: "You are Writer, a creative writing specialist. Produce clear, engaging, well-structured prose.",
		DisplayName:  "Writer",
		Avatar:       "✍️",
		Color:        "bg-purple-500",
	},
	{
		Name:         "Researcher",
		Description:  "An analyst that provides thorough, sourced findings.",
		SystemPrompt: "You are Researcher, an analyst. Provide thorough findings with key statistics and caveats.",
		DisplayName:  "Researcher",
		Avatar:       "🔍",
		Color:        "bg-orange-500",
	},
}

func main() {
	cfg := config.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	ctx := context.Background()

	var dataStore store.DataStore
	if cfg.DatabaseURL != "" {
		if err := store.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		dataStore = pgStore
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite initialization failed")
		}
		dataStore = sqliteStore
	}
	defer dataStore.Close()

	for _, seed := range defaultAgents {
		existing, err := dataStore.GetAgentByName(ctx, seed.Name)
		if err != nil {
			logger.Fatal().Err(err).Str("agent", seed.Name).Msg("lookup failed")
		}
		if existing != nil {
			logger.Info().Str("agent", seed.Name).Msg("already present, skipping")
			continue
		}

		agent, err := dataStore.CreateAgent(ctx, seed)
		if err != nil {
			logger.Fatal().Err(err).Str("agent", seed.Name).Msg("create failed")
		}
		logger.Info().Str("agent", agent.Name).Int64("id", agent.ID).Msg("created")
	}

	logger.Info().Msg("seeding complete")
}
