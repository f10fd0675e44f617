package app

import (
	"time"

	"github.com/vigiahub/assistant-backend/internal/platform/envutil"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type Config struct {
	HTTPAddr        string
	DefaultTimezone string
	QueryTimeout    time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	addr := envutil.GetEnv("HTTP_ADDR", ":8080", log)
	tz := envutil.GetEnv("DEFAULT_TIMEZONE", "America/Sao_Paulo", log)
	queryTimeoutSeconds := envutil.GetEnvAsInt("DB_QUERY_TIMEOUT_SECONDS", 10, log)
	return Config{
		HTTPAddr:        addr,
		DefaultTimezone: tz,
		QueryTimeout:    time.Duration(queryTimeoutSeconds) * time.Second,
	}
}
