package app

import (
	"github.com/vigiahub/assistant-backend/internal/assistant"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type Services struct {
	Assistant *assistant.Service
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var embedder assistant.Embedder
	var generator assistant.TextGenerator
	if clients.AI != nil {
		embedder = clients.AI
		generator = clients.AI
	}
	var cache assistant.StatsCache
	if clients.StatsCache != nil {
		cache = clients.StatsCache
	}

	retriever := assistant.NewRetriever(log, embedder, reposet.Retrieval, reposet.Conversations, cfg.QueryTimeout)

	svc := assistant.NewService(log, assistant.Deps{
		Conversations:   reposet.Conversations,
		Posts:           reposet.Posts,
		Stats:           reposet.Stats,
		StatsCache:      cache,
		Retriever:       retriever,
		Generator:       generator,
		DefaultTimezone: cfg.DefaultTimezone,
		QueryTimeout:    cfg.QueryTimeout,
	})

	return Services{Assistant: svc}
}
