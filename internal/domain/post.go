package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PostStatusPosted    = "posted"
	PostStatusScheduled = "scheduled"
)

// ScheduledPost is an outbound message for a project. Exactly one of PostedAt
// (actual publication instant) or ScheduledFor (future slot) is expected to be
// set depending on Status, but both are nullable and a day-window query must
// consider either.
type ScheduledPost struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	Status  string `gorm:"type:text;not null;default:'scheduled';index" json:"status"`
	Message string `gorm:"type:text;not null" json:"message"`

	PostedAt     *time.Time `gorm:"index" json:"posted_at,omitempty"`
	ScheduledFor *time.Time `gorm:"index" json:"scheduled_for,omitempty"`

	VideoTitle *string `gorm:"type:text" json:"video_title,omitempty"`
	VideoURL   *string `gorm:"type:text" json:"video_url,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScheduledPost) TableName() string { return "scheduled_post" }

// EffectiveTime is the instant used for display ordering: the actual post time
// when present, otherwise the scheduled slot. Nil when neither is set.
func (p ScheduledPost) EffectiveTime() *time.Time {
	if p.PostedAt != nil {
		return p.PostedAt
	}
	return p.ScheduledFor
}
