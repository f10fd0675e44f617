package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vigiahub/assistant-backend/internal/domain"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type PostRepo interface {
	// InWindow returns posts whose posted_at OR scheduled_for falls inside
	// [start, end). A row qualifies through either timestamp because only one
	// of the two is populated depending on status.
	InWindow(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]domain.ScheduledPost, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, log *logger.Logger) PostRepo {
	return &postRepo{
		db:  db,
		log: log.With("repo", "PostRepo"),
	}
}

func (r *postRepo) InWindow(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]domain.ScheduledPost, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("invalid window")
	}
	var out []domain.ScheduledPost
	err := r.db.WithContext(ctx).
		Model(&domain.ScheduledPost{}).
		Where("project_id = ?", projectID).
		Where(
			r.db.Where("posted_at >= ? AND posted_at < ?", start, end).
				Or("scheduled_for >= ? AND scheduled_for < ?", start, end),
		).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
