package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type FeedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db}
}

// FindByProject returns a project's feedback, newest first.
func (r *FeedbackRepo) FindByProject(projectID uuid.UUID) ([]*models.ClientFeedback, error) {
	var feedbacks []*models.ClientFeedback
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

// Add inserts a new feedback row. Feedback is insert-only; there is no
// update or delete path.
func (r *FeedbackRepo) Add(feedback *models.ClientFeedback) error {
	return r.db.Create(feedback).Error
}
