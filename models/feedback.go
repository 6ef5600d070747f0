package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxFeedbackLength is the upper bound on a client feedback message.
const MaxFeedbackLength = 500

// ClientFeedback is a message left by the client on the public tracking
// page. Rows are insert-only: never mutated, never deleted through the API.
type ClientFeedback struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	Message   string    `json:"message" db:"message" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`
}
