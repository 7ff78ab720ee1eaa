package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ref, err := s.Save(context.Background(), strings.NewReader("image bytes"), "1710412200000-rings.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/1710412200000-rings.jpg", ref)

	data, err := os.ReadFile(filepath.Join(dir, "1710412200000-rings.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	require.NoError(t, s.Delete(context.Background(), "1710412200000-rings.jpg"))

	_, err = os.Stat(filepath.Join(dir, "1710412200000-rings.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_DeleteMissingFile(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Delete(context.Background(), "never-stored.jpg")
	assert.True(t, os.IsNotExist(err))
}
