package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification kinds.
const (
	NotificationWelcome  = "welcome"
	NotificationProgress = "progress"
	NotificationRecovery = "recovery"
)

// NotificationRecord is one WhatsApp dispatch attempt. Delivery is
// at-most-once with no retry; the raw gateway response is kept so failed
// sends are auditable after the fact.
type NotificationRecord struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID       *uuid.UUID     `json:"projectId,omitempty" db:"project_id" gorm:"type:uuid;index"`
	Phone           string         `json:"phone" db:"phone" gorm:"type:text;not null"`
	Body            string         `json:"body" db:"body" gorm:"type:text;not null"`
	Kind            string         `json:"kind" db:"kind" gorm:"type:text;not null"`
	Success         bool           `json:"success" db:"success" gorm:"not null"`
	GatewayResponse datatypes.JSON `json:"gatewayResponse,omitempty" db:"gateway_response" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`
}
