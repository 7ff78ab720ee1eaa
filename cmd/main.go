package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	adminMiddleware "github.com/evermoments/backend/internal/auth/middleware"
	"github.com/evermoments/backend/internal/config"
	"github.com/evermoments/backend/internal/handlers"
	"github.com/evermoments/backend/internal/logger"
	loggerMiddleware "github.com/evermoments/backend/internal/logger/middleware"
	sharedMiddleware "github.com/evermoments/backend/internal/middlewares"
	"github.com/evermoments/backend/internal/repositories"
	"github.com/evermoments/backend/internal/services"
	"github.com/evermoments/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const maxRequestSize = 48 * 1024 * 1024 // headroom for multi-file uploads

// @title EverMoments API
// @version 1.0
// @description API for the wedding album: moments, settings and uploads

// @host localhost:4000
// @BasePath /api
// @securityDefinitions.apikey AdminAuth
// @in header
// @name x-admin-password
// @description Shared admin password for mutating endpoints
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting EverMoments backend")

	if cfg.AdminPassword == "" {
		logger.Logger.Warn("ADMIN_PASSWORD is not set; all admin endpoints will be rejected")
	}

	// Connect to database
	db, err := connectDB(cfg.DBPath)
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize storage backend (object store when fully configured,
	// local disk otherwise)
	fileStorage, err := storage.NewFromConfig(cfg.S3, cfg.UploadsDir, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	presigner, _ := fileStorage.(storage.Presigner)

	// Initialize repositories
	momentRepo := repositories.NewMomentRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	// Initialize services
	mediaService := services.NewMediaService(momentRepo, fileStorage, cfg.PublicBaseURL)
	settingsService := services.NewSettingsService(settingRepo, logger.Logger)

	// Initialize middleware
	adminMw := adminMiddleware.AdminMiddleware(cfg.AdminPassword)

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(mediaService, logger.Logger, adminMw)
	settingsHandler := handlers.NewSettingsHandler(settingsService, mediaService, logger.Logger, cfg.PublicBaseURL, adminMw)
	uploadHandler := handlers.NewUploadHandler(presigner, logger.Logger, adminMw)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(maxRequestSize))

	// Locally stored uploads; a no-op directory when the object store
	// backend is active
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// Scope API routes to /api
	r.Route("/api", func(r chi.Router) {
		mediaHandler.RegisterRoutes(r)
		settingsHandler.RegisterRoutes(r)
		uploadHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second, // Longer timeout for file uploads
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB opens the SQLite database, creating its directory when needed
func connectDB(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes; a single connection avoids lock contention
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"sqlite3",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
