package api

import (
	"time"

	"github.com/studiokarsa/trackline-backend/config"
	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/services/notify"
	"github.com/studiokarsa/trackline-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, blobs storage.BlobStore, dispatcher *notify.Dispatcher, cfg map[string]string, startupTime time.Time) *routeHandlers {
	secret := []byte(config.GetString(cfg, "SESSION_SECRET", ""))
	secureCookies := config.GetString(cfg, "APP_ENV", "development") == "production"

	return &routeHandlers{
		authHandler:     newAuthHandler(database.UserRepo(), secret, secureCookies),
		projectHandler:  newProjectHandler(database.ProjectRepo(), database.FeedbackRepo(), blobs, dispatcher),
		logHandler:      newLogHandler(database.ProjectRepo(), database.ProjectLogRepo(), blobs, dispatcher),
		artifactHandler: newArtifactHandler(database.ProjectRepo(), database.ArtifactRepo(), blobs),
		trackHandler:    newTrackHandler(database.ProjectRepo(), database.FeedbackRepo(), database.ProgressUpdateRepo(), blobs, dispatcher),
		healthHandler:   newHealthHandler(startupTime),
	}
}
