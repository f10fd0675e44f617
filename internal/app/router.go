package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vigiahub/assistant-backend/internal/http/handlers"
	"github.com/vigiahub/assistant-backend/internal/http/middleware"
	"github.com/vigiahub/assistant-backend/internal/http/response"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(log))
	router.Use(middleware.CORS())

	// Wrong verbs on a known route must answer 405, not 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		response.RespondError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/assistant", h.Assistant.Ask)
	}

	return router
}
