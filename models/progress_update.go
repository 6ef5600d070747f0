package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProgressUpdate is an optional phase-tagged attachment bundle owned by a
// single project log. Links is a JSON array of {url,label} objects.
type ProgressUpdate struct {
	ID          uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID   uuid.UUID      `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	Description string         `json:"description" db:"description" gorm:"type:text;not null"`
	Phase       Phase          `json:"phase" db:"phase" gorm:"type:text;not null"`
	Links       datatypes.JSON `json:"links,omitempty" db:"links" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`

	Images []ProgressUpdateImage `json:"images,omitempty" gorm:"foreignKey:ProgressUpdateID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProgressUpdateLink is the element shape stored in ProgressUpdate.Links.
type ProgressUpdateLink struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// ProgressUpdateImage is an uploaded image exclusively owned by one
// progress update. The bytes live in blob storage under StorageKey; URL is
// whatever the store reported at upload time.
type ProgressUpdateImage struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProgressUpdateID uuid.UUID `json:"progressUpdateId" db:"progress_update_id" gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	StorageKey       string    `json:"-" db:"storage_key" gorm:"type:text;not null"`
	URL              string    `json:"url" db:"url" gorm:"type:text;not null"`
	FileName         string    `json:"fileName" db:"file_name" gorm:"type:text;not null"`
	MimeType         string    `json:"mimeType" db:"mime_type" gorm:"type:text;not null"`
	Size             int64     `json:"size" db:"size" gorm:"type:bigint;not null"`
	SortOrder        int       `json:"sortOrder" db:"sort_order" gorm:"type:integer;not null;default:0"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`
}
