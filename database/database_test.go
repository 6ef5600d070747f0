package database

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studiokarsa/trackline-backend/models"
)

// newTestDB opens an in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

// seedProject inserts a minimal project and returns it.
func seedProject(t *testing.T, db *gorm.DB, token, phone string) *models.Project {
	t.Helper()
	project := &models.Project{
		ID:          uuid.New(),
		ClientName:  "Budi",
		ClientPhone: phone,
		ProjectName: "Website Toko",
		Deadline:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Token:       token,
	}
	require.NoError(t, NewProjectRepo(db).Add(project))
	return project
}
