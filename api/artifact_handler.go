package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/errs"
	"github.com/studiokarsa/trackline-backend/models"
	"github.com/studiokarsa/trackline-backend/storage"
)

type artifactHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  *database.ProjectRepo
	artifactRepo *database.ArtifactRepo
	blobs        storage.BlobStore
}

func newArtifactHandler(projectRepo *database.ProjectRepo, artifactRepo *database.ArtifactRepo, blobs storage.BlobStore) artifactHandler {
	logger := log.With().Str("handlerName", "artifactHandler").Logger()

	return artifactHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		artifactRepo: artifactRepo,
		blobs:        blobs,
	}
}

// maxArtifactUploadBytes caps an artifact upload.
const maxArtifactUploadBytes = 32 << 20 // 32MB

// getArtifacts lists a project's discussion artifacts
func (h artifactHandler) getArtifacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := h.requireProject(w, r)
		if err != nil {
			return
		}

		artifacts, err := h.artifactRepo.FindByProject(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find artifacts", "artifacts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"artifacts": artifacts,
			"total":     len(artifacts),
		})
	}
}

// createArtifact stores a discussion artifact: either an uploaded file or
// an external link, never both, never neither.
func (h artifactHandler) createArtifact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := h.requireProject(w, r)
		if err != nil {
			return
		}

		if err := r.ParseMultipartForm(maxArtifactUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("expected multipart form data"))
			return
		}

		artifact := models.DiscussionArtifact{
			ID:          uuid.New(),
			ProjectID:   projectID,
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Phase:       models.Phase(r.FormValue("phase")),
		}

		if artifact.Title == "" {
			h.responder.WriteError(w, errs.NewValidationError("title", "title is required"))
			return
		}
		if !models.ValidPhase(artifact.Phase) {
			h.responder.WriteError(w, errs.NewValidationError("phase", "phase must be one of: discussion, design, development, testing, release"))
			return
		}
		if typeStr := r.FormValue("type"); typeStr != "" {
			artifactType := models.ArtifactType(typeStr)
			if !models.ValidArtifactType(artifactType) {
				h.responder.WriteError(w, errs.NewValidationError("type", "type must be one of: wireframe, design_file, meeting_notes, document, other"))
				return
			}
			artifact.Type = &artifactType
		}

		sourceLink := r.FormValue("sourceLinkUrl")
		file, header, fileErr := r.FormFile("file")
		hasFile := fileErr == nil && header != nil && header.Size > 0
		if hasFile {
			defer file.Close()
		}

		if hasFile == (sourceLink != "") {
			h.responder.WriteError(w, errs.NewBadRequestError("exactly one of file or sourceLinkUrl is required"))
			return
		}

		if hasFile {
			if err := h.attachFile(r, &artifact, file, header); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		} else {
			if !isHTTPURL(sourceLink) {
				h.responder.WriteError(w, errs.NewValidationError("sourceLinkUrl", "sourceLinkUrl must be http(s)"))
				return
			}
			artifact.SourceLinkURL = sourceLink
		}

		if err := h.artifactRepo.Add(&artifact); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create artifact", "artifact", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, artifact)
	}
}

// updateArtifact patches an artifact's metadata and optionally replaces
// its file or link. The exactly-one-of rule holds after the patch too.
func (h artifactHandler) updateArtifact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, artifact, ok := h.requireArtifact(w, r)
		if !ok {
			return
		}

		if err := r.ParseMultipartForm(maxArtifactUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("expected multipart form data"))
			return
		}

		if title := r.FormValue("title"); title != "" {
			artifact.Title = title
		}
		if description := r.FormValue("description"); description != "" {
			artifact.Description = description
		}
		if phaseStr := r.FormValue("phase"); phaseStr != "" {
			phase := models.Phase(phaseStr)
			if !models.ValidPhase(phase) {
				h.responder.WriteError(w, errs.NewValidationError("phase", "phase must be one of: discussion, design, development, testing, release"))
				return
			}
			artifact.Phase = phase
		}
		if typeStr := r.FormValue("type"); typeStr != "" {
			artifactType := models.ArtifactType(typeStr)
			if !models.ValidArtifactType(artifactType) {
				h.responder.WriteError(w, errs.NewValidationError("type", "type must be one of: wireframe, design_file, meeting_notes, document, other"))
				return
			}
			artifact.Type = &artifactType
		}

		sourceLink := r.FormValue("sourceLinkUrl")
		file, header, fileErr := r.FormFile("file")
		hasFile := fileErr == nil && header != nil && header.Size > 0
		if hasFile {
			defer file.Close()
		}

		if hasFile && sourceLink != "" {
			h.responder.WriteError(w, errs.NewBadRequestError("provide either a file or a sourceLinkUrl, not both"))
			return
		}

		switch {
		case hasFile:
			oldKey := artifact.StorageKey
			if err := h.attachFile(r, artifact, file, header); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			artifact.SourceLinkURL = ""
			h.removeBlob(r, oldKey)
		case sourceLink != "":
			if !isHTTPURL(sourceLink) {
				h.responder.WriteError(w, errs.NewValidationError("sourceLinkUrl", "sourceLinkUrl must be http(s)"))
				return
			}
			oldKey := artifact.StorageKey
			artifact.SourceLinkURL = sourceLink
			artifact.StorageKey = ""
			artifact.FileURL = ""
			artifact.FileName = ""
			artifact.MimeType = ""
			artifact.Size = 0
			h.removeBlob(r, oldKey)
		}

		if err := h.artifactRepo.Update(artifact); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update artifact", "artifact", err))
			return
		}

		h.responder.WriteJSON(w, artifact)
	}
}

// deleteArtifact removes an artifact and its stored file, if any
func (h artifactHandler) deleteArtifact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, artifact, ok := h.requireArtifact(w, r)
		if !ok {
			return
		}

		if err := h.artifactRepo.Delete(artifact.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete artifact", "artifact", err))
			return
		}
		h.removeBlob(r, artifact.StorageKey)

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "artifact deleted successfully",
		})
	}
}

// downloadArtifact streams the stored file of a file-backed artifact
func (h artifactHandler) downloadArtifact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, artifact, ok := h.requireArtifact(w, r)
		if !ok {
			return
		}

		if !artifact.HasFile() {
			h.responder.WriteError(w, errs.NewNotFoundError("artifact has no stored file"))
			return
		}

		data, contentType, err := h.blobs.Get(r.Context(), artifact.StorageKey)
		if err != nil {
			h.logger.Error().Err(err).Str("key", artifact.StorageKey).Msg("Failed to fetch artifact file")
			h.responder.WriteError(w, errs.NewNotFoundError("artifact file not found"))
			return
		}

		if contentType == "" {
			contentType = artifact.MimeType
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", artifact.FileName))
		_, _ = w.Write(data)
	}
}

// attachFile uploads the file and fills the artifact's file branch.
func (h artifactHandler) attachFile(r *http.Request, artifact *models.DiscussionArtifact, file multipart.File, header *multipart.FileHeader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read uploaded artifact file")
		return errs.NewBadRequestError("failed to read uploaded file")
	}
	if len(data) == 0 {
		return errs.NewValidationError("file", "uploaded file is empty")
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	key := fmt.Sprintf("artifacts/%s/%s_%s", artifact.ProjectID, uuid.New(), header.Filename)
	url, err := h.blobs.Put(r.Context(), key, data, mimeType)
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to store artifact file")
		return errs.NewInternalError("failed to store uploaded file")
	}

	artifact.StorageKey = key
	artifact.FileURL = url
	artifact.FileName = header.Filename
	artifact.MimeType = mimeType
	artifact.Size = int64(len(data))
	return nil
}

// removeBlob deletes a stored blob, logging failures only.
func (h artifactHandler) removeBlob(r *http.Request, key string) {
	if key == "" {
		return
	}
	if err := h.blobs.Delete(r.Context(), key); err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to delete stored file")
	}
}

// requireProject parses the projectID and verifies the project exists,
// writing the error response itself on failure.
func (h artifactHandler) requireProject(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	projectID, err := parseProjectID(r)
	if err != nil {
		h.responder.WriteError(w, err)
		return uuid.Nil, err
	}
	project, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		dbErr := wrapDatabaseError("find project", "project", err)
		h.responder.WriteError(w, dbErr)
		return uuid.Nil, dbErr
	}
	if project == nil {
		notFound := errs.NewNotFoundError("project not found")
		h.responder.WriteError(w, notFound)
		return uuid.Nil, notFound
	}
	return projectID, nil
}

// requireArtifact resolves the artifact scoped to its project, writing the
// error response itself on failure.
func (h artifactHandler) requireArtifact(w http.ResponseWriter, r *http.Request) (uuid.UUID, *models.DiscussionArtifact, bool) {
	projectID, err := h.requireProject(w, r)
	if err != nil {
		return uuid.Nil, nil, false
	}

	artifactIDStr := chi.URLParam(r, "artifactID")
	artifactID, err := uuid.Parse(artifactIDStr)
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid artifactID"))
		return uuid.Nil, nil, false
	}

	artifact, err := h.artifactRepo.FindByID(projectID, artifactID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find artifact", "artifact", err))
		return uuid.Nil, nil, false
	}
	if artifact == nil {
		h.responder.WriteError(w, errs.NewNotFoundError("artifact not found"))
		return uuid.Nil, nil, false
	}
	return projectID, artifact, true
}
