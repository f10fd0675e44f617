package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type StatsRepo interface {
	// Snapshot runs the single aggregate query for a project. An error means
	// "unavailable"; callers must not substitute zeroed counters for it.
	Snapshot(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, error)
}

type statsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatsRepo(db *gorm.DB, log *logger.Logger) StatsRepo {
	return &statsRepo{
		db:  db,
		log: log.With("repo", "StatsRepo"),
	}
}

type statsRow struct {
	TotalMentions     int    `gorm:"column:total_mentions"`
	PostedMentions    int    `gorm:"column:posted_mentions"`
	ChannelCount      int    `gorm:"column:channel_count"`
	VideoCount        int    `gorm:"column:video_count"`
	ScheduledMessages int    `gorm:"column:scheduled_messages"`
	MentionsToday     int    `gorm:"column:mentions_today"`
	TopChannels       []byte `gorm:"column:top_channels"`
	Keywords          []byte `gorm:"column:keywords"`
}

func (r *statsRepo) Snapshot(ctx context.Context, projectID uuid.UUID) (*domain.ProjectStats, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}

	var row statsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT count(*) FROM mention m WHERE m.project_id = @pid)                                   AS total_mentions,
			(SELECT count(*) FROM mention m WHERE m.project_id = @pid AND m.status = 'posted')           AS posted_mentions,
			(SELECT count(DISTINCT m.channel_name) FROM mention m WHERE m.project_id = @pid)             AS channel_count,
			(SELECT count(DISTINCT m.video_url) FROM mention m
				WHERE m.project_id = @pid AND m.video_url IS NOT NULL)                                   AS video_count,
			(SELECT count(*) FROM scheduled_post p
				WHERE p.project_id = @pid AND p.status = 'scheduled')                                    AS scheduled_messages,
			(SELECT count(*) FROM mention m
				WHERE m.project_id = @pid AND m.created_at >= date_trunc('day', now()))                  AS mentions_today,
			(SELECT COALESCE(json_agg(t), '[]'::json) FROM (
				SELECT m.channel_name AS name, count(*) AS count
				FROM mention m
				WHERE m.project_id = @pid AND m.channel_name IS NOT NULL
				GROUP BY m.channel_name
				ORDER BY count(*) DESC
				LIMIT 5
			) t)                                                                                         AS top_channels,
			(SELECT COALESCE(json_agg(k.keyword), '[]'::json) FROM (
				SELECT DISTINCT pk.keyword
				FROM project_keyword pk
				WHERE pk.project_id = @pid
				LIMIT 20
			) k)                                                                                         AS keywords
	`, map[string]any{"pid": projectID}).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	out := &domain.ProjectStats{
		TotalMentions:     row.TotalMentions,
		PostedMentions:    row.PostedMentions,
		ChannelCount:      row.ChannelCount,
		VideoCount:        row.VideoCount,
		ScheduledMessages: row.ScheduledMessages,
		MentionsToday:     row.MentionsToday,
	}
	if len(row.TopChannels) > 0 {
		if err := json.Unmarshal(row.TopChannels, &out.TopChannels); err != nil {
			return nil, fmt.Errorf("decode top channels: %w", err)
		}
	}
	if len(row.Keywords) > 0 {
		if err := json.Unmarshal(row.Keywords, &out.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords: %w", err)
		}
	}
	return out, nil
}
