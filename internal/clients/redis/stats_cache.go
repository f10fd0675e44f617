package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

// StatsCache is a short-TTL cache for project statistics snapshots. Every
// miss or redis failure falls through to the SQL aggregate; failures are never
// cached.
type StatsCache interface {
	Get(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, bool)
	Set(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStats)
}

type statsCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewStatsCache(log *logger.Logger) (StatsCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("REDIS_STATS_TTL_SECONDS")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &statsCache{
		log: log.With("service", "RedisStatsCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *statsCache) key(projectID uuid.UUID) string {
	return "assistant:stats:" + projectID.String()
}

func (c *statsCache) Get(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, bool) {
	if c == nil || c.rdb == nil || projectID == uuid.Nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(projectID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Stats cache read failed", "error", err)
		}
		return nil, false
	}
	var out domain.ProjectStats
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("Stats cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return &out, true
}

func (c *statsCache) Set(ctx context.Context, projectID uuid.UUID, stats *domain.ProjectStats) {
	if c == nil || c.rdb == nil || projectID == uuid.Nil || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(projectID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Stats cache write failed", "error", err)
	}
}
