// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Logging       LoggingConfig
	CORS          CORSConfig
	S3            S3Config
	AdminPassword string
	DBPath        string
	UploadsDir    string
	PublicBaseURL string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// S3Config holds object store settings. The object-store strategy is only
// activated when every field is non-empty; anything less falls back to
// local-disk storage.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Complete reports whether every object-store field is set.
func (c S3Config) Complete() bool {
	return c.Bucket != "" && c.Region != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "4000" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		cfg.CORS.AllowedOrigins = []string{"*"}
	} else {
		// Parse comma-separated origins
		origins := strings.Split(corsOrigins, ",")
		cfg.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
		// If no valid origins found, default to allow all
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowedOrigins = []string{"*"}
		}
	}

	// Admin password. May be empty: the admin gate then rejects every
	// mutating call, which matches the behavior of running without one.
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	// Database file path
	cfg.DBPath = os.Getenv("DB_PATH")
	if cfg.DBPath == "" {
		cfg.DBPath = "data/moments.db"
	}

	// Local uploads directory, served statically under /uploads
	cfg.UploadsDir = os.Getenv("UPLOADS_DIR")
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "uploads"
	}

	// Public base URL used to resolve root-relative image references
	cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	// Object store configuration (all-or-nothing)
	cfg.S3.Bucket = os.Getenv("S3_BUCKET")
	cfg.S3.Region = os.Getenv("AWS_REGION")
	cfg.S3.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	return cfg, nil
}
