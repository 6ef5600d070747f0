package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db}
}

// FindByProject returns a project's dispatch history, newest first.
func (r *NotificationRepo) FindByProject(projectID uuid.UUID) ([]*models.NotificationRecord, error) {
	var records []*models.NotificationRecord
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

// Add inserts a dispatch record into the database
func (r *NotificationRepo) Add(record *models.NotificationRecord) error {
	return r.db.Create(record).Error
}
