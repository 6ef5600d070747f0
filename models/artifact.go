package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscussionArtifact is a stored file or an external link representing a
// discussion/design output (wireframe, meeting notes, ...). Exactly one of
// the file branch (StorageKey et al.) or SourceLinkURL is set.
type DiscussionArtifact struct {
	ID          uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID   uuid.UUID     `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE"`
	Title       string        `json:"title" db:"title" gorm:"type:text;not null"`
	Description string        `json:"description" db:"description" gorm:"type:text;not null"`
	Phase       Phase         `json:"phase" db:"phase" gorm:"type:text;not null"`
	Type        *ArtifactType `json:"type,omitempty" db:"type" gorm:"type:text"`

	StorageKey string `json:"-" db:"storage_key" gorm:"type:text"`
	FileURL    string `json:"fileUrl,omitempty" db:"file_url" gorm:"type:text"`
	FileName   string `json:"fileName,omitempty" db:"file_name" gorm:"type:text"`
	MimeType   string `json:"mimeType,omitempty" db:"mime_type" gorm:"type:text"`
	Size       int64  `json:"size,omitempty" db:"size" gorm:"type:bigint"`

	SourceLinkURL string `json:"sourceLinkUrl,omitempty" db:"source_link_url" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;autoUpdateTime"`
}

// HasFile reports whether the artifact carries an uploaded file.
func (a DiscussionArtifact) HasFile() bool {
	return a.StorageKey != ""
}
