package app

import (
	"github.com/vigiahub/assistant-backend/internal/http/handlers"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type Handlers struct {
	Assistant *handlers.AssistantHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Assistant: handlers.NewAssistantHandler(log, services.Assistant),
	}
}
