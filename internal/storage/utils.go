package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// GenerateFileName derives a stored filename from the client's original
// one: the base name is sanitized and prefixed with a millisecond timestamp
// so repeated uploads of the same file never collide. A name that sanitizes
// to nothing falls back to a UUID.
func GenerateFileName(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = unsafeChars.ReplaceAllString(base, "_")

	if strings.Trim(base, "_") == "" {
		base = uuid.New().String()
	}

	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), base, ext)
}
