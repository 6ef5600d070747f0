package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectLog is one append-only timeline entry. The latest entry's
// percentage is the project's current progress. A log may point at a
// progress update when the submission carried visual content.
type ProjectLog struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID        uuid.UUID  `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	Title            string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description      string     `json:"description" db:"description" gorm:"type:text;not null"`
	Percentage       int        `json:"percentage" db:"percentage" gorm:"type:integer;not null"`
	ProgressUpdateID *uuid.UUID `json:"progressUpdateId,omitempty" db:"progress_update_id" gorm:"type:uuid"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`

	ProgressUpdate *ProgressUpdate `json:"progressUpdate,omitempty" gorm:"foreignKey:ProgressUpdateID;references:ID"`
}
