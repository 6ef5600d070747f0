package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type ProjectLogRepo struct {
	db *gorm.DB
}

func NewProjectLogRepo(db *gorm.DB) *ProjectLogRepo {
	return &ProjectLogRepo{db}
}

// FindByProject returns a project's logs newest-first with their progress
// updates and images preloaded.
func (r *ProjectLogRepo) FindByProject(projectID uuid.UUID) ([]*models.ProjectLog, error) {
	var logs []*models.ProjectLog
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Preload("ProgressUpdate.Images").
		Find(&logs).Error
	return logs, err
}

// Add inserts a log entry and, when update is non-nil, its progress update
// with images, as one transaction. Statement order: progress update first,
// then the log pointing at it, then the project's updated_at touch. Blob
// uploads must already be finished before this is called.
func (r *ProjectLogRepo) Add(logEntry *models.ProjectLog, update *models.ProgressUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if update != nil {
			if err := tx.Create(update).Error; err != nil {
				return err
			}
			logEntry.ProgressUpdateID = &update.ID
		}
		if err := tx.Create(logEntry).Error; err != nil {
			return err
		}
		return tx.Model(&models.Project{}).
			Where("id = ?", logEntry.ProjectID).
			Update("updated_at", time.Now()).Error
	})
}
