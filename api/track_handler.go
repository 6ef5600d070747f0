package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/errs"
	"github.com/studiokarsa/trackline-backend/models"
	"github.com/studiokarsa/trackline-backend/services"
	"github.com/studiokarsa/trackline-backend/services/notify"
	"github.com/studiokarsa/trackline-backend/storage"
)

type trackHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	feedbackRepo *database.FeedbackRepo
	updateRepo   *database.ProgressUpdateRepo
	blobs        storage.BlobStore
	dispatcher   *notify.Dispatcher
}

func newTrackHandler(projectRepo *database.ProjectRepo, feedbackRepo *database.FeedbackRepo, updateRepo *database.ProgressUpdateRepo, blobs storage.BlobStore, dispatcher *notify.Dispatcher) trackHandler {
	logger := log.With().Str("handlerName", "trackHandler").Logger()

	return trackHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		feedbackRepo: feedbackRepo,
		updateRepo:   updateRepo,
		blobs:        blobs,
		dispatcher:   dispatcher,
	}
}

// publicProject is the token-scoped view of a project. The client phone
// never leaves the admin side.
type publicProject struct {
	ProjectName string              `json:"projectName"`
	ClientName  string              `json:"clientName"`
	Deadline    string              `json:"deadline"`
	Status      string              `json:"status"`
	Progress    int                 `json:"progress"`
	Logs        []models.ProjectLog `json:"logs"`
}

// validateToken answers whether a tracking token exists. Existence and the
// project id are the only things it leaks.
func (h trackHandler) validateToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("token is required"))
			return
		}

		project, err := h.projectRepo.FindByToken(req.Token)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("unknown tracking token"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"valid":     true,
			"projectId": project.ID,
		})
	}
}

// getByToken returns the public tracking view: core project fields plus
// the timeline oldest-first.
func (h trackHandler) getByToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		project, err := h.projectRepo.FindByToken(token)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("unknown tracking token"))
			return
		}

		// Repo ordering is newest-first for the admin view; the public
		// timeline reads oldest-first.
		logs := project.Logs
		sort.SliceStable(logs, func(i, j int) bool {
			return logs[i].CreatedAt.Before(logs[j].CreatedAt)
		})

		h.responder.WriteJSON(w, publicProject{
			ProjectName: project.ProjectName,
			ClientName:  project.ClientName,
			Deadline:    project.Deadline.Format(deadlineLayout),
			Status:      project.Status,
			Progress:    project.Progress,
			Logs:        logs,
		})
	}
}

// submitFeedback appends a feedback row for the token's project. No
// idempotency: duplicate submits create duplicate rows.
func (h trackHandler) submitFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			h.responder.WriteError(w, errs.NewValidationError("message", "message is required"))
			return
		}
		if len([]rune(message)) > models.MaxFeedbackLength {
			h.responder.WriteError(w, errs.NewValidationError("message", "message must be at most 500 characters"))
			return
		}

		project, err := h.projectRepo.FindByToken(token)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("unknown tracking token"))
			return
		}

		feedback := models.ClientFeedback{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Message:   message,
		}
		if err := h.feedbackRepo.Add(&feedback); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create feedback", "feedback", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, feedback)
	}
}

// recoverByPhone sends one WhatsApp message listing every tracking link
// registered under the phone. A miss is a soft 200 with success:false so
// the client UI stays quiet about it.
func (h trackHandler) recoverByPhone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Phone string `json:"phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("phone is required"))
			return
		}

		phone := services.NormalizePhone(req.Phone)
		if !services.ValidPhone(phone) {
			h.responder.WriteJSON(w, map[string]interface{}{"success": false})
			return
		}

		projects, err := h.projectRepo.FindByPhone(phone)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}
		if len(projects) == 0 {
			h.responder.WriteJSON(w, map[string]interface{}{"success": false})
			return
		}

		h.dispatcher.DispatchRecovery(phone, projects)

		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
			"count":   len(projects),
		})
	}
}

// getImage streams a progress-update image, scoped to the token's own
// project.
func (h trackHandler) getImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid imageID"))
			return
		}

		image, err := h.updateRepo.FindImageByToken(token, imageID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find image", "image", err))
			return
		}
		if image == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("image not found"))
			return
		}

		data, contentType, err := h.blobs.Get(r.Context(), image.StorageKey)
		if err != nil {
			h.logger.Error().Err(err).Str("key", image.StorageKey).Msg("Failed to fetch image")
			h.responder.WriteError(w, errs.NewNotFoundError("image not found"))
			return
		}

		if contentType == "" {
			contentType = image.MimeType
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}
