package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/evermoments/backend/internal/models"
	"github.com/evermoments/backend/internal/repositories"
	"github.com/evermoments/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Per-file upload limit, matching the original deployment.
const maxFileSize = 10 << 20 // 10MB

// Parsing memory budget for multipart forms; larger bodies spill to disk.
const multipartMemory = 32 << 20

// MediaService defines the interface for media service operations
type MediaService interface {
	// Upload stores one file and records it as a new moment.
	Upload(ctx context.Context, f services.UploadFile, meta models.MomentMetadata) (*models.Moment, error)
	// UploadBatch stores N files with N parallel metadata entries,
	// best-effort, reporting a per-item outcome for each.
	UploadBatch(ctx context.Context, files []services.UploadFile, metadata []models.MomentMetadata) ([]models.BatchItemResult, error)
	// List returns all moments, newest first.
	List(ctx context.Context) ([]models.Moment, error)
	// Get returns one moment by id.
	Get(ctx context.Context, id int64) (*models.Moment, error)
	// Update applies a partial update, optionally replacing the image file.
	Update(ctx context.Context, id int64, update models.MomentUpdate, file *services.UploadFile) (*models.Moment, error)
	// Delete removes the moment row; stored bytes are kept.
	Delete(ctx context.Context, id int64) error
}

// MediaHandler handles moment-related HTTP requests
type MediaHandler struct {
	BaseHandler
	mediaService MediaService
	adminMw      func(http.Handler) http.Handler
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService MediaService, logger *zap.Logger, adminMw func(http.Handler) http.Handler) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		mediaService: mediaService,
		adminMw:      adminMw,
	}
}

// RegisterRoutes registers all media handler routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/media", h.List)
	r.Get("/media/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(h.adminMw)
		r.Post("/media", h.Create)
		r.Get("/admin/media", h.List)
		r.Put("/admin/media/{id}", h.Update)
		r.Delete("/admin/media/{id}", h.Delete)
		r.Post("/admin/media-batch", h.CreateBatch)
	})
}

// List handles GET /media (and the admin-gated GET /admin/media)
// @Summary List moments
// @Description List all moments, newest first, with resolved image URLs
// @Tags media
// @Produce json
// @Success 200 {array} models.Moment
// @Router /media [get]
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	moments, err := h.mediaService.List(r.Context())
	if err != nil {
		h.Logger.Error("failed to list moments", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list moments")
		return
	}

	h.RespondJSON(w, http.StatusOK, moments)
}

// Get handles GET /media/{id}
// @Summary Get one moment
// @Tags media
// @Produce json
// @Param id path int true "Moment ID"
// @Success 200 {object} models.Moment
// @Failure 404 {object} map[string]string "Moment not found"
// @Router /media/{id} [get]
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	moment, err := h.mediaService.Get(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		h.RespondError(w, http.StatusNotFound, "moment not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to get moment", zap.Error(err), zap.Int64("id", id))
		h.RespondError(w, http.StatusInternalServerError, "failed to get moment")
		return
	}

	h.RespondJSON(w, http.StatusOK, moment)
}

// Create handles POST /media
// @Summary Upload one moment
// @Description Relay upload: one image file plus metadata fields creates one moment
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param x-admin-password header string true "Admin password"
// @Success 201 {object} models.Moment
// @Failure 400 {object} map[string]string "Missing or oversized file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /media [post]
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "image file is required (field name: image)")
		return
	}
	defer file.Close()

	if fileHeader.Size > maxFileSize {
		h.RespondError(w, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}

	meta := models.MomentMetadata{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Section:     r.FormValue("section"),
		Caption:     r.FormValue("caption"),
	}

	moment, err := h.mediaService.Upload(r.Context(), services.UploadFile{
		Reader:      file,
		Name:        fileHeader.Filename,
		ContentType: fileContentType(fileHeader),
	}, meta)
	if err != nil {
		h.Logger.Error("failed to upload moment", zap.Error(err))
		h.respondUploadError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, moment)
}

// CreateBatch handles POST /admin/media-batch
// @Summary Upload a moment group
// @Description Relay upload of N files plus a parallel metadata JSON array; items share one creation timestamp and succeed or fail independently
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Image files"
// @Param metadata formData string true "JSON array of per-file metadata"
// @Param x-admin-password header string true "Admin password"
// @Success 200 {object} map[string][]models.BatchItemResult
// @Failure 400 {object} map[string]string "Malformed request"
// @Router /admin/media-batch [post]
func (h *MediaHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	fileHeaders := r.MultipartForm.File["images"]
	if len(fileHeaders) == 0 {
		h.RespondError(w, http.StatusBadRequest, "at least one image is required (field name: images)")
		return
	}

	var metadata []models.MomentMetadata
	if err := json.Unmarshal([]byte(r.FormValue("metadata")), &metadata); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid metadata JSON")
		return
	}
	if len(metadata) != len(fileHeaders) {
		h.RespondError(w, http.StatusBadRequest, "metadata entries must match image count")
		return
	}

	files := make([]services.UploadFile, 0, len(fileHeaders))
	closers := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	for _, fh := range fileHeaders {
		if fh.Size > maxFileSize {
			h.RespondError(w, http.StatusBadRequest, "file too large (max 10MB): "+fh.Filename)
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.Logger.Error("failed to open uploaded file", zap.Error(err))
			h.RespondError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		closers = append(closers, f)
		files = append(files, services.UploadFile{
			Reader:      f,
			Name:        fh.Filename,
			ContentType: fileContentType(fh),
		})
	}

	results, err := h.mediaService.UploadBatch(r.Context(), files, metadata)
	if err != nil {
		h.Logger.Error("failed to upload batch", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to upload batch")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Update handles PUT /admin/media/{id}
// @Summary Update a moment
// @Description Partial update of metadata fields, with an optional replacement image file
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Moment ID"
// @Param x-admin-password header string true "Admin password"
// @Success 200 {object} models.Moment
// @Failure 404 {object} map[string]string "Moment not found"
// @Router /admin/media/{id} [put]
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	update := models.MomentUpdate{
		Title:       formField(r, "title"),
		Description: formField(r, "description"),
		Category:    formField(r, "category"),
		Section:     formField(r, "section"),
		Caption:     formField(r, "caption"),
	}

	var uploadFile *services.UploadFile
	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		if fileHeader.Size > maxFileSize {
			h.RespondError(w, http.StatusBadRequest, "file too large (max 10MB)")
			return
		}
		uploadFile = &services.UploadFile{
			Reader:      file,
			Name:        fileHeader.Filename,
			ContentType: fileContentType(fileHeader),
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.RespondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	moment, err := h.mediaService.Update(r.Context(), id, update, uploadFile)
	if errors.Is(err, repositories.ErrNotFound) {
		h.RespondError(w, http.StatusNotFound, "moment not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to update moment", zap.Error(err), zap.Int64("id", id))
		h.respondUploadError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, moment)
}

// Delete handles DELETE /admin/media/{id}. The stored bytes are not
// deleted, only the record; settings may still reference the image.
// @Summary Delete a moment
// @Tags media
// @Param id path int true "Moment ID"
// @Param x-admin-password header string true "Admin password"
// @Success 204 "Moment deleted"
// @Failure 404 {object} map[string]string "Moment not found"
// @Router /admin/media/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.mediaService.Delete(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		h.RespondError(w, http.StatusNotFound, "moment not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to delete moment", zap.Error(err), zap.Int64("id", id))
		h.RespondError(w, http.StatusInternalServerError, "failed to delete moment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondUploadError maps a storage write failure to 502 and everything
// else to 500.
func (h *BaseHandler) respondUploadError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "store file") {
		h.RespondError(w, http.StatusBadGateway, "failed to store file")
		return
	}
	h.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// fileContentType extracts the content type of an uploaded file, defaulting
// to application/octet-stream.
func fileContentType(fh *multipart.FileHeader) string {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

// formField returns a pointer to the form value if the field was present in
// the request, nil otherwise. Presence distinguishes "clear this field"
// from "leave it alone".
func formField(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
