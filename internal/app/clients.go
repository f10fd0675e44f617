package app

import (
	redisclient "github.com/vigiahub/assistant-backend/internal/clients/redis"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
	"github.com/vigiahub/assistant-backend/internal/platform/openai"
)

type Clients struct {
	AI         openai.Client          // nil when OPENAI_API_KEY is missing
	StatsCache redisclient.StatsCache // nil when REDIS_ADDR is missing
}

// wireClients never fails the boot: a missing completion credential only
// breaks the generation step, and the cache is strictly optional.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var out Clients

	ai, err := openai.NewClient(log)
	if err != nil {
		log.Warn("Completion client disabled; answers will use the fallback message", "error", err)
	} else {
		out.AI = ai
	}

	cache, err := redisclient.NewStatsCache(log)
	if err != nil {
		log.Info("Stats cache disabled", "reason", err.Error())
	} else {
		out.StatsCache = cache
	}

	return out
}
