package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

func RequestLog(log *logger.Logger) gin.HandlerFunc {
	log = log.With("middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
