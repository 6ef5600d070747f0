package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokarsa/trackline-backend/models"
)

func TestFeedbackRepoNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepo(db)
	project := seedProject(t, db, "tok-fb", "6281234567890")

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(&models.ClientFeedback{
		ID: uuid.New(), ProjectID: project.ID, Message: "pertama", CreatedAt: base,
	}))
	require.NoError(t, repo.Add(&models.ClientFeedback{
		ID: uuid.New(), ProjectID: project.ID, Message: "kedua", CreatedAt: base.Add(time.Minute),
	}))

	feedbacks, err := repo.FindByProject(project.ID)
	require.NoError(t, err)
	require.Len(t, feedbacks, 2)
	assert.Equal(t, "kedua", feedbacks[0].Message)
	assert.Equal(t, "pertama", feedbacks[1].Message)
}

func TestFeedbackRepoDuplicatesAllowed(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepo(db)
	project := seedProject(t, db, "tok-fb2", "6281234567890")

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Add(&models.ClientFeedback{
			ID: uuid.New(), ProjectID: project.ID, Message: "sama persis",
		}))
	}

	feedbacks, err := repo.FindByProject(project.ID)
	require.NoError(t, err)
	assert.Len(t, feedbacks, 2)
}
