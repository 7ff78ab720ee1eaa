package services

import (
	"context"

	"github.com/evermoments/backend/internal/models"
	"go.uber.org/zap"
)

// SettingRepository defines the interface for setting data access
type SettingRepository interface {
	Upsert(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	All(ctx context.Context) (map[string]string, error)
}

// SettingsService handles the key/value settings surface
type SettingsService struct {
	repo   SettingRepository
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo SettingRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// Set upserts a key/value pair; last write wins. Keys outside the known
// setting surface are still stored for forward compatibility, but flagged
// in the log since they are usually typos.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if !models.KnownSettingKey(key) {
		s.logger.Warn("storing unknown setting key", zap.String("key", key))
	}

	return s.repo.Upsert(ctx, key, value)
}

// Get returns the value for a key. A missing key reads as an empty value;
// consumers must not distinguish the two.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return value, nil
}

// All returns every stored setting as a flat map.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	return s.repo.All(ctx)
}
