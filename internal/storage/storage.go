// Package storage persists uploaded image bytes, either on local disk or in
// an S3 bucket. The backend is chosen once at startup; records created under
// an older configuration keep their original references, so both kinds of
// reference stay valid simultaneously.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/evermoments/backend/internal/config"
	"go.uber.org/zap"
)

// Storage writes uploaded bytes and returns the stored reference: a
// root-relative path for local disk, an absolute URL for the object store.
type Storage interface {
	Save(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
}

// Presigner issues a time-limited direct-upload authorization. Only the
// object-store backend implements it.
type Presigner interface {
	PresignPut(ctx context.Context, filename, contentType string) (*PresignedUpload, error)
}

// PresignedUpload is a direct-upload target: the client PUTs the bytes to
// UploadURL before ExpiresAt, after which the object is reachable at
// PublicURL.
type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewFromConfig selects the storage backend. The object store is used iff
// every S3 configuration value is present; partial configuration silently
// falls back to local disk. The decision holds for the process lifetime.
func NewFromConfig(s3cfg config.S3Config, uploadsDir string, logger *zap.Logger) (Storage, error) {
	if s3cfg.Complete() {
		logger.Info("using object store for uploads",
			zap.String("bucket", s3cfg.Bucket),
			zap.String("region", s3cfg.Region),
		)
		return NewS3Storage(s3cfg), nil
	}

	if s3cfg.Bucket != "" || s3cfg.Region != "" || s3cfg.AccessKeyID != "" || s3cfg.SecretAccessKey != "" {
		logger.Warn("incomplete object store configuration, falling back to local disk")
	}

	local, err := NewLocalStorage(uploadsDir)
	if err != nil {
		return nil, err
	}
	logger.Info("using local disk for uploads", zap.String("dir", uploadsDir))
	return local, nil
}
