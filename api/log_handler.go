package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/errs"
	"github.com/studiokarsa/trackline-backend/models"
	"github.com/studiokarsa/trackline-backend/services/notify"
	"github.com/studiokarsa/trackline-backend/storage"
)

type logHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	logRepo     *database.ProjectLogRepo
	blobs       storage.BlobStore
	dispatcher  *notify.Dispatcher
}

func newLogHandler(projectRepo *database.ProjectRepo, logRepo *database.ProjectLogRepo, blobs storage.BlobStore, dispatcher *notify.Dispatcher) logHandler {
	logger := log.With().Str("handlerName", "logHandler").Logger()

	return logHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		blobs:       blobs,
		dispatcher:  dispatcher,
	}
}

// maxLogUploadBytes caps a multipart log submission.
const maxLogUploadBytes = 32 << 20 // 32MB

// createLogRequest is the parsed submission, from either JSON or multipart
// form. Images only arrive via multipart.
type createLogRequest struct {
	Title            string                      `json:"title"`
	Description      string                      `json:"description"`
	Percentage       int                         `json:"percentage"`
	SendNotification bool                        `json:"sendNotification"`
	Phase            string                      `json:"phase"`
	Links            []models.ProgressUpdateLink `json:"links"`

	images []*multipart.FileHeader
}

// hasVisualContent reports whether the submission should produce a
// progress update.
func (req createLogRequest) hasVisualContent() bool {
	return req.Phase != "" || len(req.Links) > 0 || len(req.images) > 0
}

func (req createLogRequest) validate() error {
	if req.Title == "" {
		return errs.NewValidationError("title", "title is required")
	}
	if req.Description == "" {
		return errs.NewValidationError("description", "description is required")
	}
	if req.Percentage < 0 || req.Percentage > 100 {
		return errs.NewValidationError("percentage", "percentage must be between 0 and 100")
	}
	if req.hasVisualContent() && !models.ValidPhase(models.Phase(req.Phase)) {
		return errs.NewValidationError("phase", "phase must be one of: discussion, design, development, testing, release")
	}
	for _, link := range req.Links {
		if !isHTTPURL(link.URL) {
			return errs.NewValidationError("links", "link urls must be http(s)")
		}
	}
	return nil
}

// getLogs lists a project's timeline, newest first
func (h logHandler) getLogs() http.HandlerFunc {
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

		logs, err := h.logRepo.FindByProject(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find logs", "logs", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"logs":  logs,
			"total": len(logs),
		})
	}
}

// createLog appends a timeline entry. Image uploads finish before the
// database transaction starts; a crash in between leaves an orphaned blob,
// which is accepted. The WhatsApp notification goes out after commit.
func (h logHandler) createLog() http.HandlerFunc {
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

		req, err := h.parseCreateLogRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var update *models.ProgressUpdate
		if req.hasVisualContent() {
			update, err = h.buildProgressUpdate(r, projectID, req)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		logEntry := models.ProjectLog{
			ID:          uuid.New(),
			ProjectID:   projectID,
			Title:       req.Title,
			Description: req.Description,
			Percentage:  req.Percentage,
		}

		if err := h.logRepo.Add(&logEntry, update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create log", "log", err))
			return
		}
		logEntry.ProgressUpdate = update

		if req.SendNotification && project.ClientPhone != "" {
			h.dispatcher.DispatchProgress(project, &logEntry)
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, logEntry)
	}
}

// parseCreateLogRequest decodes either a JSON body or a multipart form.
func (h logHandler) parseCreateLogRequest(r *http.Request) (createLogRequest, error) {
	var req createLogRequest

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode log request body")
			return req, errs.NewBadRequestError("malformed request body")
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxLogUploadBytes); err != nil {
		return req, errs.NewBadRequestError("malformed multipart form")
	}

	req.Title = r.FormValue("title")
	req.Description = r.FormValue("description")
	req.Phase = r.FormValue("phase")
	req.SendNotification = r.FormValue("sendNotification") == "true"

	if pctStr := r.FormValue("percentage"); pctStr != "" {
		pct, err := strconv.Atoi(pctStr)
		if err != nil {
			return req, errs.NewValidationError("percentage", "percentage must be an integer")
		}
		req.Percentage = pct
	}

	if linksStr := r.FormValue("links"); linksStr != "" {
		if err := json.Unmarshal([]byte(linksStr), &req.Links); err != nil {
			return req, errs.NewValidationError("links", "links must be a JSON array of {url,label}")
		}
	}

	if r.MultipartForm != nil {
		req.images = r.MultipartForm.File["images"]
	}
	return req, nil
}

// buildProgressUpdate uploads all images concurrently and assembles the
// progress update row set for the transaction.
func (h logHandler) buildProgressUpdate(r *http.Request, projectID uuid.UUID, req createLogRequest) (*models.ProgressUpdate, error) {
	update := &models.ProgressUpdate{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Description: req.Description,
		Phase:       models.Phase(req.Phase),
	}

	if len(req.Links) > 0 {
		linksJSON, err := json.Marshal(req.Links)
		if err != nil {
			return nil, errs.NewValidationError("links", "links could not be encoded")
		}
		update.Links = datatypes.JSON(linksJSON)
	}

	if len(req.images) == 0 {
		return update, nil
	}

	images := make([]models.ProgressUpdateImage, len(req.images))
	g, ctx := errgroup.WithContext(r.Context())
	for i, header := range req.images {
		i, header := i, header
		g.Go(func() error {
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open uploaded image %s: %w", header.Filename, err)
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return fmt.Errorf("failed to read uploaded image %s: %w", header.Filename, err)
			}
			if len(data) == 0 {
				return errs.NewValidationError("images", "uploaded image is empty")
			}

			mimeType := header.Header.Get("Content-Type")
			if mimeType == "" {
				mimeType = http.DetectContentType(data)
			}

			key := fmt.Sprintf("progress/%s/%s_%s", projectID, uuid.New(), header.Filename)
			url, err := h.blobs.Put(ctx, key, data, mimeType)
			if err != nil {
				return fmt.Errorf("failed to store uploaded image %s: %w", header.Filename, err)
			}

			images[i] = models.ProgressUpdateImage{
				ID:               uuid.New(),
				ProgressUpdateID: update.ID,
				StorageKey:       key,
				URL:              url,
				FileName:         header.Filename,
				MimeType:         mimeType,
				Size:             int64(len(data)),
				SortOrder:        i,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		h.logger.Error().Err(err).Msg("Image upload failed")
		return nil, errs.NewInternalError("failed to store uploaded images")
	}

	update.Images = images
	return update, nil
}

// isHTTPURL reports whether raw is a syntactically valid http(s) URL.
func isHTTPURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
