package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type ProgressUpdateRepo struct {
	db *gorm.DB
}

func NewProgressUpdateRepo(db *gorm.DB) *ProgressUpdateRepo {
	return &ProgressUpdateRepo{db}
}

// FindByID returns a progress update with its images, or nil when missing.
func (r *ProgressUpdateRepo) FindByID(id uuid.UUID) (*models.ProgressUpdate, error) {
	var update models.ProgressUpdate
	err := r.db.Preload("Images").First(&update, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// FindImageByToken returns an image only when it belongs to the project
// that owns the tracking token. The join keeps the public passthrough
// endpoint scoped to the token's own project.
func (r *ProgressUpdateRepo) FindImageByToken(token string, imageID uuid.UUID) (*models.ProgressUpdateImage, error) {
	var image models.ProgressUpdateImage
	err := r.db.
		Joins("JOIN progress_updates ON progress_updates.id = progress_update_images.progress_update_id").
		Joins("JOIN projects ON projects.id = progress_updates.project_id").
		Where("progress_update_images.id = ? AND projects.token = ?", imageID, token).
		First(&image).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}
