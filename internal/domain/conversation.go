package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one persisted message of a session, either the user's
// question or the assistant's answer. Rows are append-only: this service never
// updates or deletes them.
type ConversationTurn struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	SessionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"session_id"`

	Role    string `gorm:"type:text;not null" json:"role"`
	Message string `gorm:"type:text;not null" json:"message"`

	Metadata datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ConversationTurn) TableName() string { return "conversation_turn" }
