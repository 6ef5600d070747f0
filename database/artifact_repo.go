package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type ArtifactRepo struct {
	db *gorm.DB
}

func NewArtifactRepo(db *gorm.DB) *ArtifactRepo {
	return &ArtifactRepo{db}
}

// FindByProject returns a project's discussion artifacts, newest first.
func (r *ArtifactRepo) FindByProject(projectID uuid.UUID) ([]*models.DiscussionArtifact, error) {
	var artifacts []*models.DiscussionArtifact
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&artifacts).Error
	return artifacts, err
}

// FindByID returns an artifact scoped to a project, or nil when the id is
// unknown or belongs to another project.
func (r *ArtifactRepo) FindByID(projectID, artifactID uuid.UUID) (*models.DiscussionArtifact, error) {
	var artifact models.DiscussionArtifact
	err := r.db.First(&artifact, "id = ? AND project_id = ?", artifactID, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Add inserts a new artifact into the database
func (r *ArtifactRepo) Add(artifact *models.DiscussionArtifact) error {
	return r.db.Create(artifact).Error
}

// Update saves an existing artifact in the database
func (r *ArtifactRepo) Update(artifact *models.DiscussionArtifact) error {
	return r.db.Save(artifact).Error
}

// Delete removes an artifact from the database by id
func (r *ArtifactRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.DiscussionArtifact{}, "id = ?", id).Error
}
