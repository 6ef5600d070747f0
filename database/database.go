package database

import (
	"gorm.io/gorm"

	"github.com/studiokarsa/trackline-backend/models"
)

type Database struct {
	userRepo           *UserRepo
	projectRepo        *ProjectRepo
	projectLogRepo     *ProjectLogRepo
	progressUpdateRepo *ProgressUpdateRepo
	artifactRepo       *ArtifactRepo
	feedbackRepo       *FeedbackRepo
	notificationRepo   *NotificationRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:           NewUserRepo(db),
		projectRepo:        NewProjectRepo(db),
		projectLogRepo:     NewProjectLogRepo(db),
		progressUpdateRepo: NewProgressUpdateRepo(db),
		artifactRepo:       NewArtifactRepo(db),
		feedbackRepo:       NewFeedbackRepo(db),
		notificationRepo:   NewNotificationRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectLogRepo() *ProjectLogRepo {
	return d.projectLogRepo
}

func (d Database) ProgressUpdateRepo() *ProgressUpdateRepo {
	return d.progressUpdateRepo
}

func (d Database) ArtifactRepo() *ArtifactRepo {
	return d.artifactRepo
}

func (d Database) FeedbackRepo() *FeedbackRepo {
	return d.feedbackRepo
}

func (d Database) NotificationRepo() *NotificationRepo {
	return d.notificationRepo
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProgressUpdate{},
		&models.ProgressUpdateImage{},
		&models.ProjectLog{},
		&models.DiscussionArtifact{},
		&models.ClientFeedback{},
		&models.NotificationRecord{},
	)
}
