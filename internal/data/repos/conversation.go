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

type ConversationRepo interface {
	Append(ctx context.Context, row *domain.ConversationTurn) error
	SessionHistory(ctx context.Context, sessionID uuid.UUID, projectID *uuid.UUID) ([]domain.ConversationTurn, error)
	UserHistory(ctx context.Context, userID, excludeSessionID uuid.UUID, projectID *uuid.UUID, limit int) ([]domain.ConversationTurn, error)
	RecentProjectTurns(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ConversationTurn, error)
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return &conversationRepo{
		db:  db,
		log: log.With("repo", "ConversationRepo"),
	}
}

func (r *conversationRepo) Append(ctx context.Context, row *domain.ConversationTurn) error {
	if row == nil || row.UserID == uuid.Nil || row.SessionID == uuid.Nil {
		return fmt.Errorf("invalid conversation turn")
	}
	if row.Role != domain.RoleUser && row.Role != domain.RoleAssistant {
		return fmt.Errorf("invalid role %q", row.Role)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if len(row.Metadata) == 0 {
		row.Metadata = []byte(`{}`)
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *conversationRepo) SessionHistory(ctx context.Context, sessionID uuid.UUID, projectID *uuid.UUID) ([]domain.ConversationTurn, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session id")
	}
	q := r.db.WithContext(ctx).
		Model(&domain.ConversationTurn{}).
		Where("session_id = ?", sessionID)
	if projectID != nil && *projectID != uuid.Nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var out []domain.ConversationTurn
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conversationRepo) UserHistory(ctx context.Context, userID, excludeSessionID uuid.UUID, projectID *uuid.UUID, limit int) ([]domain.ConversationTurn, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	if limit <= 0 {
		limit = 10
	}
	q := r.db.WithContext(ctx).
		Model(&domain.ConversationTurn{}).
		Where("user_id = ?", userID)
	if excludeSessionID != uuid.Nil {
		q = q.Where("session_id <> ?", excludeSessionID)
	}
	if projectID != nil && *projectID != uuid.Nil {
		q = q.Where("project_id = ?", *projectID)
	}
	var out []domain.ConversationTurn
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conversationRepo) RecentProjectTurns(ctx context.Context, projectID uuid.UUID, limit int) ([]domain.ConversationTurn, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	if limit <= 0 {
		limit = 50
	}
	// Most recent N, presented oldest-first.
	sub := r.db.WithContext(ctx).
		Model(&domain.ConversationTurn{}).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit)
	var out []domain.ConversationTurn
	if err := r.db.WithContext(ctx).
		Table("(?) AS recent", sub).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
