package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/evermoments/backend/internal/models"
	"github.com/evermoments/backend/internal/resolve"
	"github.com/evermoments/backend/internal/storage"
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores the bytes under filename and returns the Reference for
	// them: a root-relative path (local disk) or an absolute URL (object
	// store).
	Save(ctx context.Context, r io.Reader, filename, contentType string) (string, error)

	// Delete removes a stored file. Used only to clean up after a relay
	// write whose record insert failed.
	Delete(ctx context.Context, filename string) error
}

// MomentRepository defines the interface for moment data access
type MomentRepository interface {
	Insert(ctx context.Context, m *models.Moment) error
	List(ctx context.Context) ([]models.Moment, error)
	GetByID(ctx context.Context, id int64) (*models.Moment, error)
	Update(ctx context.Context, m *models.Moment) error
	Delete(ctx context.Context, id int64) error
}

// UploadFile is one incoming file of a relay upload.
type UploadFile struct {
	Reader      io.Reader
	Name        string
	ContentType string
}

// MediaService handles business logic for moment operations
type MediaService struct {
	repo    MomentRepository
	storage Storage
	baseURL string
}

// NewMediaService creates a new media service
func NewMediaService(repo MomentRepository, st Storage, baseURL string) *MediaService {
	return &MediaService{
		repo:    repo,
		storage: st,
		baseURL: baseURL,
	}
}

// StoreFile writes the bytes through the active storage backend and returns
// the stored Reference. No record is created; the caller decides whether
// the reference becomes a moment or a setting value.
func (s *MediaService) StoreFile(ctx context.Context, f UploadFile) (string, error) {
	filename := storage.GenerateFileName(f.Name)

	ref, err := s.storage.Save(ctx, f.Reader, filename, f.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	return ref, nil
}

// Upload stores one file and records it as a new moment. If the record
// insert fails the stored bytes are removed again, so the relay path never
// leaves an orphan behind.
func (s *MediaService) Upload(ctx context.Context, f UploadFile, meta models.MomentMetadata) (*models.Moment, error) {
	filename := storage.GenerateFileName(f.Name)

	ref, err := s.storage.Save(ctx, f.Reader, filename, f.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	moment := &models.Moment{
		Title:       meta.Title,
		Description: meta.Description,
		Category:    meta.Category,
		Section:     meta.Section,
		Caption:     meta.Caption,
		Image:       ref,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, moment); err != nil {
		s.storage.Delete(ctx, filename)
		return nil, fmt.Errorf("failed to insert moment: %w", err)
	}

	moment.URL = resolve.URL(moment.Image, s.baseURL)
	return moment, nil
}

// UploadBatch stores N files with N parallel metadata entries as N moments
// sharing one creation timestamp. Items are processed best-effort in array
// order: a failed item is reported in its result and does not undo the
// items already inserted.
func (s *MediaService) UploadBatch(ctx context.Context, files []UploadFile, metadata []models.MomentMetadata) ([]models.BatchItemResult, error) {
	if len(files) != len(metadata) {
		return nil, fmt.Errorf("got %d files but %d metadata entries", len(files), len(metadata))
	}

	createdAt := time.Now().UTC()
	results := make([]models.BatchItemResult, 0, len(files))

	for i, f := range files {
		meta := metadata[i]
		result := models.BatchItemResult{Index: i}

		filename := storage.GenerateFileName(f.Name)
		ref, err := s.storage.Save(ctx, f.Reader, filename, f.ContentType)
		if err != nil {
			result.Error = "failed to store file"
			results = append(results, result)
			continue
		}

		moment := &models.Moment{
			Title:       meta.Title,
			Description: meta.Description,
			Category:    meta.Category,
			Section:     meta.Section,
			Caption:     meta.Caption,
			Image:       ref,
			CreatedAt:   createdAt,
		}

		if err := s.repo.Insert(ctx, moment); err != nil {
			s.storage.Delete(ctx, filename)
			result.Error = "failed to insert moment"
			results = append(results, result)
			continue
		}

		result.OK = true
		result.ID = moment.ID
		result.Image = moment.Image
		result.URL = resolve.URL(moment.Image, s.baseURL)
		results = append(results, result)
	}

	return results, nil
}

// List returns all moments, newest first, with resolved URLs.
func (s *MediaService) List(ctx context.Context) ([]models.Moment, error) {
	moments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range moments {
		moments[i].URL = resolve.URL(moments[i].Image, s.baseURL)
	}
	return moments, nil
}

// Get returns one moment with its resolved URL.
func (s *MediaService) Get(ctx context.Context, id int64) (*models.Moment, error) {
	moment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	moment.URL = resolve.URL(moment.Image, s.baseURL)
	return moment, nil
}

// Update applies a partial field update, optionally replacing the stored
// image with a newly uploaded file. The previous bytes are not deleted.
func (s *MediaService) Update(ctx context.Context, id int64, update models.MomentUpdate, file *UploadFile) (*models.Moment, error) {
	moment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if file != nil {
		ref, err := s.StoreFile(ctx, *file)
		if err != nil {
			return nil, err
		}
		update.Image = &ref
	}

	update.Apply(moment)

	if err := s.repo.Update(ctx, moment); err != nil {
		return nil, err
	}

	moment.URL = resolve.URL(moment.Image, s.baseURL)
	return moment, nil
}

// Delete removes the moment row. The underlying bytes are intentionally
// kept: references held in settings may still point at them.
func (s *MediaService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
