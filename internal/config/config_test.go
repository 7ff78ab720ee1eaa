package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("UPLOADS_DIR", "")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "data/moments.db", cfg.DBPath)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, "http://localhost:4000", cfg.PublicBaseURL)
	assert.False(t, cfg.S3.Complete())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("SERVER_PORT", "4000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com, https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PublicBaseURLTrimsTrailingSlash(t *testing.T) {
	t.Setenv("SERVER_PORT", "4000")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
}

func TestS3Config_Complete(t *testing.T) {
	tests := []struct {
		name     string
		cfg      S3Config
		expected bool
	}{
		{
			name: "all fields set",
			cfg: S3Config{
				Bucket:          "wedding-album",
				Region:          "ap-south-1",
				AccessKeyID:     "AKIA123",
				SecretAccessKey: "secret",
			},
			expected: true,
		},
		{
			name: "missing credentials",
			cfg: S3Config{
				Bucket: "wedding-album",
				Region: "ap-south-1",
			},
			expected: false,
		},
		{
			name:     "empty",
			cfg:      S3Config{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.Complete())
		})
	}
}
