package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokarsa/trackline-backend/models"
)

func TestUserRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	user := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: "$2a$10$hash",
	}
	require.NoError(t, repo.Add(user))

	count, err = repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	found, err := repo.FindByUsername("admin")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.FindByUsername("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "admin", byID.Username)
}

func TestUserRepoDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	require.NoError(t, repo.Add(&models.User{ID: uuid.New(), Username: "admin", PasswordHash: "x"}))
	assert.Error(t, repo.Add(&models.User{ID: uuid.New(), Username: "admin", PasswordHash: "y"}))
}
