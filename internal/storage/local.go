package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RefPrefix is the path prefix under which local uploads are served.
const RefPrefix = "/uploads/"

// localStorage implements Storage on the local filesystem. Stored
// references are root-relative paths under RefPrefix.
type localStorage struct {
	baseDir string
}

// NewLocalStorage creates a localStorage rooted at baseDir, creating the
// directory if absent.
func NewLocalStorage(baseDir string) (*localStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

// Save writes the file and returns its root-relative reference.
func (s *localStorage) Save(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	path := filepath.Join(s.baseDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return RefPrefix + filename, nil
}

// Delete removes a stored file.
func (s *localStorage) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(s.baseDir, filename))
}
