package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	adminmw "github.com/evermoments/backend/internal/auth/middleware"
	"github.com/evermoments/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockPresigner is a mock implementation of storage.Presigner
type mockPresigner struct {
	filename    string
	contentType string
	err         error
}

func (m *mockPresigner) PresignPut(ctx context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	m.filename = filename
	m.contentType = contentType
	if m.err != nil {
		return nil, m.err
	}
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.s3.ap-south-1.amazonaws.com/uploads/" + filename + "?X-Amz-Signature=abc",
		PublicURL: "https://bucket.s3.ap-south-1.amazonaws.com/uploads/" + filename,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func newUploadRouter(p storage.Presigner) chi.Router {
	r := chi.NewRouter()
	h := NewUploadHandler(p, zap.NewNop(), adminmw.AdminMiddleware(testAdminPassword))
	h.RegisterRoutes(r)
	return r
}

func TestUploadHandler_Presign(t *testing.T) {
	presigner := &mockPresigner{}
	r := newUploadRouter(presigner)

	body := `{"filename":"my photo.jpg","contentType":"image/jpeg"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/upload-presign", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminmw.AdminHeader, testAdminPassword)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp storage.PresignedUpload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.NotEmpty(t, resp.PublicURL)

	// the object key is generated server-side, never the raw client filename
	assert.NotEqual(t, "my photo.jpg", presigner.filename)
	assert.Regexp(t, regexp.MustCompile(`^\d+-my_photo\.jpg$`), presigner.filename)
	assert.Equal(t, "image/jpeg", presigner.contentType)
}

func TestUploadHandler_Presign_DefaultContentType(t *testing.T) {
	presigner := &mockPresigner{}
	r := newUploadRouter(presigner)

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-presign", bytes.NewBufferString(`{"filename":"a.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminmw.AdminHeader, testAdminPassword)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", presigner.contentType)
}

func TestUploadHandler_Presign_NotConfigured(t *testing.T) {
	r := newUploadRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-presign", bytes.NewBufferString(`{"filename":"a.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminmw.AdminHeader, testAdminPassword)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "object storage not configured")
}

func TestUploadHandler_Presign_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: `{`},
		{name: "missing filename", body: `{"contentType":"image/jpeg"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newUploadRouter(&mockPresigner{})

			req := httptest.NewRequest(http.MethodPost, "/admin/upload-presign", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(adminmw.AdminHeader, testAdminPassword)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUploadHandler_Presign_UpstreamError(t *testing.T) {
	r := newUploadRouter(&mockPresigner{err: errors.New("presign failed")})

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-presign", bytes.NewBufferString(`{"filename":"a.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(adminmw.AdminHeader, testAdminPassword)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUploadHandler_Presign_Unauthorized(t *testing.T) {
	r := newUploadRouter(&mockPresigner{})

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-presign", bytes.NewBufferString(`{"filename":"a.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
