package api

import (
	"encoding/json"
	"net/http"
	"time"

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

type projectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	feedbackRepo *database.FeedbackRepo
	blobs        storage.BlobStore
	dispatcher   *notify.Dispatcher
}

func newProjectHandler(projectRepo *database.ProjectRepo, feedbackRepo *database.FeedbackRepo, blobs storage.BlobStore, dispatcher *notify.Dispatcher) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		feedbackRepo: feedbackRepo,
		blobs:        blobs,
		dispatcher:   dispatcher,
	}
}

// deadlineLayout is the wire format for project deadlines.
const deadlineLayout = "2006-01-02"

type projectRequest struct {
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	ProjectName string `json:"projectName"`
	Deadline    string `json:"deadline"`
}

// validate checks all four fields and returns the normalized phone and
// parsed deadline. Phone rules are identical on create and update.
func (req projectRequest) validate() (phone string, deadline time.Time, err error) {
	if req.ClientName == "" {
		return "", time.Time{}, errs.NewValidationError("clientName", "clientName is required")
	}
	if req.ClientPhone == "" {
		return "", time.Time{}, errs.NewValidationError("clientPhone", "clientPhone is required")
	}
	if req.ProjectName == "" {
		return "", time.Time{}, errs.NewValidationError("projectName", "projectName is required")
	}
	if req.Deadline == "" {
		return "", time.Time{}, errs.NewValidationError("deadline", "deadline is required")
	}

	phone = services.NormalizePhone(req.ClientPhone)
	if !services.ValidPhone(phone) {
		return "", time.Time{}, errs.NewValidationError("clientPhone", "clientPhone is not a valid Indonesian phone number")
	}

	deadline, parseErr := time.Parse(deadlineLayout, req.Deadline)
	if parseErr != nil {
		return "", time.Time{}, errs.NewValidationError("deadline", "deadline must be formatted as YYYY-MM-DD")
	}
	return phone, deadline, nil
}

// createProject registers a new client project, generates its tracking
// token and sends the welcome WhatsApp message. The notification result is
// reported but never fails the request.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		phone, deadline, err := req.validate()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := services.NewTrackingToken()
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to generate tracking token")
			h.responder.WriteError(w, errs.NewInternalError("failed to generate tracking token"))
			return
		}

		project := models.Project{
			ID:          uuid.New(),
			ClientName:  req.ClientName,
			ClientPhone: phone,
			ProjectName: req.ProjectName,
			Deadline:    deadline,
			Token:       token,
		}

		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}
		project.Derive()

		notificationSent := h.dispatcher.SendWelcome(r.Context(), &project)

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
			"project":          project,
			"notificationSent": notificationSent,
		})
	}
}

// getAllProjects retrieves all projects with derived progress and status
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		// The list view carries derived fields only, not full timelines
		for _, p := range projects {
			p.Logs = nil
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"projects": projects,
			"total":    len(projects),
		})
	}
}

// getProject retrieves a specific project by ID with its logs descending
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// updateProject replaces the mutable fields of an existing project. The
// phone is re-normalized and re-validated exactly as on create.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Verify project exists
		existing, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		var req projectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		phone, deadline, validateErr := req.validate()
		if validateErr != nil {
			h.responder.WriteError(w, validateErr)
			return
		}

		existing.ClientName = req.ClientName
		existing.ClientPhone = phone
		existing.ProjectName = req.ProjectName
		existing.Deadline = deadline

		if err := h.projectRepo.Update(existing); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		updated, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated project", "project", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject deletes a project and everything it owns. Stored files go
// too: the keys are collected up front, then swept out of blob storage
// best-effort once the cascade delete has committed.
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Verify project exists
		existing, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		storageKeys, err := h.projectRepo.FindStorageKeys(projectID)
		if err != nil {
			h.logger.Error().Err(err).Str("projectID", projectID.String()).Msg("Failed to collect storage keys before delete")
			storageKeys = nil
		}

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		for _, key := range storageKeys {
			if err := h.blobs.Delete(r.Context(), key); err != nil {
				h.logger.Error().Err(err).Str("key", key).Msg("Failed to delete stored file")
			}
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// getFeedbacks lists a project's client feedback, newest first
func (h projectHandler) getFeedbacks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		feedbacks, err := h.feedbackRepo.FindByProject(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find feedbacks", "feedbacks", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"feedbacks": feedbacks,
			"total":     len(feedbacks),
		})
	}
}

// parseProjectID reads the projectID URL parameter.
func parseProjectID(r *http.Request) (uuid.UUID, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid projectID")
	}
	return projectID, nil
}
