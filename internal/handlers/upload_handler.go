package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/evermoments/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UploadHandler handles the presign step of the upload negotiation. The
// client asks for a direct-upload target; if none can be issued it falls
// back to the relay endpoints.
type UploadHandler struct {
	BaseHandler
	// presigner is nil when the local-disk backend is active
	presigner storage.Presigner
	adminMw   func(http.Handler) http.Handler
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(presigner storage.Presigner, logger *zap.Logger, adminMw func(http.Handler) http.Handler) *UploadHandler {
	return &UploadHandler{
		BaseHandler: BaseHandler{Logger: logger},
		presigner:   presigner,
		adminMw:     adminMw,
	}
}

// RegisterRoutes registers all upload handler routes
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.adminMw)
		r.Post("/admin/upload-presign", h.Presign)
	})
}

// presignRequest is the client's presign step payload.
type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Presign handles POST /admin/upload-presign
// @Summary Request a direct-upload target
// @Description Issue a time-limited presigned PUT URL plus the eventual public reference; only available when the object store is active
// @Tags upload
// @Accept json
// @Produce json
// @Param x-admin-password header string true "Admin password"
// @Success 200 {object} storage.PresignedUpload
// @Failure 400 {object} map[string]string "Object storage not configured or malformed request"
// @Failure 502 {object} map[string]string "Presign failed"
// @Router /admin/upload-presign [post]
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	if h.presigner == nil {
		h.RespondError(w, http.StatusBadRequest, "object storage not configured")
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Filename == "" {
		h.RespondError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}

	filename := storage.GenerateFileName(req.Filename)

	presigned, err := h.presigner.PresignPut(r.Context(), filename, req.ContentType)
	if err != nil {
		h.Logger.Error("failed to presign upload", zap.Error(err))
		h.RespondError(w, http.StatusBadGateway, "failed to presign upload")
		return
	}

	h.RespondJSON(w, http.StatusOK, presigned)
}
