package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// mockSettingRepository is a mock implementation of SettingRepository
type mockSettingRepository struct {
	values    map[string]string
	upsertErr error
	getErr    error
	allErr    error
}

func (m *mockSettingRepository) Upsert(ctx context.Context, key, value string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, found := m.values[key]
	return value, found, nil
}

func (m *mockSettingRepository) All(ctx context.Context) (map[string]string, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	return m.values, nil
}

func TestSettingsService_Set(t *testing.T) {
	repo := &mockSettingRepository{}
	svc := NewSettingsService(repo, zap.NewNop())

	err := svc.Set(context.Background(), "album:cover:engagement", "/uploads/y.jpg")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/y.jpg", repo.values["album:cover:engagement"])

	// last write wins, including an empty overwrite
	require.NoError(t, svc.Set(context.Background(), "album:cover:engagement", ""))
	assert.Equal(t, "", repo.values["album:cover:engagement"])
}

func TestSettingsService_Set_UnknownKeyStoredButLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &mockSettingRepository{}
	svc := NewSettingsService(repo, zap.New(core))

	err := svc.Set(context.Background(), "album:covr:engagement", "/uploads/y.jpg")
	require.NoError(t, err)

	// the typo'd key is still stored (forward compatibility)...
	assert.Equal(t, "/uploads/y.jpg", repo.values["album:covr:engagement"])

	// ...but flagged
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "unknown setting key")
}

func TestSettingsService_Set_KnownKeyNotLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewSettingsService(&mockSettingRepository{}, zap.New(core))

	require.NoError(t, svc.Set(context.Background(), "moments:hero:1", "/uploads/hero.jpg"))

	assert.Zero(t, logs.Len())
}

func TestSettingsService_Get(t *testing.T) {
	repo := &mockSettingRepository{values: map[string]string{
		"landing-image": "/uploads/landing.jpg",
	}}
	svc := NewSettingsService(repo, zap.NewNop())

	value, err := svc.Get(context.Background(), "landing-image")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/landing.jpg", value)

	// absence reads as empty value
	value, err = svc.Get(context.Background(), "moments:hero:9")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSettingsService_Get_Error(t *testing.T) {
	svc := NewSettingsService(&mockSettingRepository{getErr: errors.New("database error")}, zap.NewNop())

	_, err := svc.Get(context.Background(), "landing-image")
	assert.Error(t, err)
}

func TestSettingsService_All(t *testing.T) {
	repo := &mockSettingRepository{values: map[string]string{
		"landing-image":  "/uploads/landing.jpg",
		"moments:hero:1": "/uploads/hero1.jpg",
	}}
	svc := NewSettingsService(repo, zap.NewNop())

	settings, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, 2)
}
