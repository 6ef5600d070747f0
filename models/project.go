package models

import (
	"time"

	"github.com/google/uuid"
)

// Project status values. Status is never persisted; it is derived from the
// latest log's percentage on every read.
const (
	StatusOnProgress = "On Progress"
	StatusDone       = "Done"
)

// Project represents a client engagement tracked by the agency. Token is
// the opaque capability granting public access to the tracking view; it is
// generated at creation and never reassigned.
type Project struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ClientName  string    `json:"clientName" db:"client_name" gorm:"type:text;not null"`
	ClientPhone string    `json:"clientPhone" db:"client_phone" gorm:"type:text;not null;index"`
	ProjectName string    `json:"projectName" db:"project_name" gorm:"type:text;not null"`
	Deadline    time.Time `json:"deadline" db:"deadline" gorm:"type:date;not null"`
	Token       string    `json:"token" db:"token" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;autoUpdateTime"`

	Logs      []ProjectLog         `json:"logs,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Artifacts []DiscussionArtifact `json:"artifacts,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Feedbacks []ClientFeedback     `json:"feedbacks,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`

	// Derived on read from the latest log; not columns.
	Status   string `json:"status" gorm:"-"`
	Progress int    `json:"progress" gorm:"-"`
}

// Derive fills Status and Progress from the loaded logs. Logs must be
// sorted newest-first. A project with no logs is On Progress at 0%.
func (p *Project) Derive() {
	p.Status = StatusOnProgress
	p.Progress = 0
	if len(p.Logs) == 0 {
		return
	}
	latest := p.Logs[0]
	for _, l := range p.Logs[1:] {
		if l.CreatedAt.After(latest.CreatedAt) {
			latest = l
		}
	}
	p.Progress = latest.Percentage
	if latest.Percentage == 100 {
		p.Status = StatusDone
	}
}
