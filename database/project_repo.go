package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// preloadLogs orders logs newest-first so the first element is the latest
// entry, which status/progress derivation relies on.
func preloadLogs(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC").Preload("ProgressUpdate.Images")
}

// FindAll returns all projects, newest first, with logs preloaded and
// status/progress derived.
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Logs", preloadLogs).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		p.Derive()
	}
	return projects, nil
}

// FindByID returns a project with its logs, or nil when no project exists
// under the id.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Logs", preloadLogs).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	project.Derive()
	return &project, nil
}

// FindByToken returns the project owning the tracking token, or nil when
// the token is unknown.
func (r *ProjectRepo) FindByToken(token string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Logs", preloadLogs).First(&project, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	project.Derive()
	return &project, nil
}

// FindByPhone returns all projects registered under a normalized client
// phone number, oldest first.
func (r *ProjectRepo) FindByPhone(phone string) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Where("client_phone = ?", phone).Order("created_at ASC").Find(&projects).Error
	return projects, err
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update replaces the mutable fields of an existing project. Token and
// CreatedAt are never touched.
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Model(&models.Project{ID: project.ID}).Updates(map[string]interface{}{
		"client_name":  project.ClientName,
		"client_phone": project.ClientPhone,
		"project_name": project.ProjectName,
		"deadline":     project.Deadline,
		"updated_at":   time.Now(),
	}).Error
}

// FindStorageKeys returns the blob keys of every stored file a project
// owns, progress-update images and file-backed artifacts alike. Callers
// sweep these out of blob storage after deleting the project.
func (r *ProjectRepo) FindStorageKeys(id uuid.UUID) ([]string, error) {
	var imageKeys []string
	err := r.db.Model(&models.ProgressUpdateImage{}).
		Joins("JOIN progress_updates ON progress_updates.id = progress_update_images.progress_update_id").
		Where("progress_updates.project_id = ?", id).
		Pluck("progress_update_images.storage_key", &imageKeys).Error
	if err != nil {
		return nil, err
	}

	var artifactKeys []string
	err = r.db.Model(&models.DiscussionArtifact{}).
		Where("project_id = ? AND storage_key <> ''", id).
		Pluck("storage_key", &artifactKeys).Error
	if err != nil {
		return nil, err
	}
	return append(imageKeys, artifactKeys...), nil
}

// Delete removes a project and everything it owns: logs, progress updates
// with their images, artifacts and feedback. Done explicitly in one
// transaction so behavior does not depend on driver-level cascade support.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updateIDs := tx.Model(&models.ProgressUpdate{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("progress_update_id IN (?)", updateIDs).Delete(&models.ProgressUpdateImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProgressUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.DiscussionArtifact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ClientFeedback{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}
