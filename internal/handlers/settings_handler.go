package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evermoments/backend/internal/models"
	"github.com/evermoments/backend/internal/resolve"
	"github.com/evermoments/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SettingsService defines the interface for settings operations
type SettingsService interface {
	Set(ctx context.Context, key, value string) error
	// Get returns the value for a key; a missing key reads as empty.
	Get(ctx context.Context, key string) (string, error)
	All(ctx context.Context) (map[string]string, error)
}

// FileStore stores uploaded bytes and returns the stored reference without
// creating a moment record.
type FileStore interface {
	StoreFile(ctx context.Context, f services.UploadFile) (string, error)
}

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	BaseHandler
	settingsService SettingsService
	fileStore       FileStore
	baseURL         string
	adminMw         func(http.Handler) http.Handler
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService SettingsService, fileStore FileStore, logger *zap.Logger, baseURL string, adminMw func(http.Handler) http.Handler) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		settingsService: settingsService,
		fileStore:       fileStore,
		baseURL:         baseURL,
		adminMw:         adminMw,
	}
}

// RegisterRoutes registers all settings handler routes
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.All)
	r.Get("/settings/{key}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(h.adminMw)
		r.Post("/admin/settings", h.Set)
		r.Post("/admin/landing-image", h.SetLandingImage)
	})
}

// All handles GET /settings
// @Summary Dump all settings
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /settings [get]
func (h *SettingsHandler) All(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.All(r.Context())
	if err != nil {
		h.Logger.Error("failed to list settings", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}

	h.RespondJSON(w, http.StatusOK, settings)
}

// Get handles GET /settings/{key}
// @Summary Get one setting
// @Description Fetch one setting value; missing keys read as empty values
// @Tags settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} models.Setting
// @Router /settings/{key} [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.settingsService.Get(r.Context(), key)
	if err != nil {
		h.Logger.Error("failed to get setting", zap.Error(err), zap.String("key", key))
		h.RespondError(w, http.StatusInternalServerError, "failed to get setting")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.Setting{Key: key, Value: value})
}

// Set handles POST /admin/settings
// @Summary Upsert one setting
// @Description Write one key/value pair; last write wins
// @Tags settings
// @Accept json
// @Produce json
// @Param x-admin-password header string true "Admin password"
// @Success 200 {object} models.Setting
// @Failure 400 {object} map[string]string "Missing key"
// @Router /admin/settings [post]
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := json.NewDecoder(r.Body).Decode(&setting); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if setting.Key == "" {
		h.RespondError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.settingsService.Set(r.Context(), setting.Key, setting.Value); err != nil {
		h.Logger.Error("failed to set setting", zap.Error(err), zap.String("key", setting.Key))
		h.RespondError(w, http.StatusInternalServerError, "failed to set setting")
		return
	}

	h.RespondJSON(w, http.StatusOK, setting)
}

// SetLandingImage handles POST /admin/landing-image: a composite of the
// relay upload and the settings write for the landing image slot.
// @Summary Upload the landing image
// @Tags settings
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param x-admin-password header string true "Admin password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Missing or oversized file"
// @Router /admin/landing-image [post]
func (h *SettingsHandler) SetLandingImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
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

	ref, err := h.fileStore.StoreFile(r.Context(), services.UploadFile{
		Reader:      file,
		Name:        fileHeader.Filename,
		ContentType: fileContentType(fileHeader),
	})
	if err != nil {
		h.Logger.Error("failed to store landing image", zap.Error(err))
		h.respondUploadError(w, err)
		return
	}

	if err := h.settingsService.Set(r.Context(), models.SettingLandingImage, ref); err != nil {
		h.Logger.Error("failed to save landing image setting", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"key":   models.SettingLandingImage,
		"value": ref,
		"url":   resolve.URL(ref, h.baseURL),
	})
}
