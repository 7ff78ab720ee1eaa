package models

import (
	"strconv"
	"strings"
)

// Setting is one named, freely overwritable string value used to
// parameterize page content. A missing key reads as an empty value.
type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}

// Known fixed setting keys.
const (
	SettingLandingImage = "landing-image"
)

// Albums that carry a cover-image setting (album:cover:<name>).
var knownAlbums = map[string]bool{
	"engagement":                      true,
	"wedding":                         true,
	"pre-wedding":                     true,
	"save-the-date":                   true,
	"madhuramveppu":                   true,
	"promise-of-a-thousand-tomorrows": true,
}

// HeroImageKey returns the setting key for the nth hero image slot.
func HeroImageKey(n int) string {
	return "moments:hero:" + strconv.Itoa(n)
}

// PlaceholderKey returns the setting key for the nth placeholder slot.
func PlaceholderKey(n int) string {
	return "moments:placeholder:" + strconv.Itoa(n)
}

// AlbumCoverKey returns the cover-image setting key for an album.
func AlbumCoverKey(album string) string {
	return "album:cover:" + album
}

// CoupleKey returns a per-couple-block setting key, e.g.
// moments:couple1:title.
func CoupleKey(n int, field string) string {
	return "moments:couple" + strconv.Itoa(n) + ":" + field
}

// KnownSettingKey reports whether key belongs to the enumerated setting
// surface. Unknown keys are still stored (forward compatibility) but callers
// use this to flag probable typos.
func KnownSettingKey(key string) bool {
	if key == SettingLandingImage {
		return true
	}

	if n, ok := strings.CutPrefix(key, "moments:hero:"); ok {
		return isPositiveInt(n)
	}
	if n, ok := strings.CutPrefix(key, "moments:placeholder:"); ok {
		return isPositiveInt(n)
	}
	if album, ok := strings.CutPrefix(key, "album:cover:"); ok {
		return knownAlbums[album]
	}
	if rest, ok := strings.CutPrefix(key, "moments:couple"); ok {
		n, field, found := strings.Cut(rest, ":")
		if !found || !isPositiveInt(n) {
			return false
		}
		switch field {
		case "title", "description", "featured":
			return true
		}
	}

	return false
}

func isPositiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}
