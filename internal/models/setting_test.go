package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownSettingKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"landing-image", true},
		{"moments:hero:1", true},
		{"moments:hero:12", true},
		{"moments:hero:0", false},
		{"moments:hero:", false},
		{"moments:hero:x", false},
		{"moments:placeholder:3", true},
		{"album:cover:engagement", true},
		{"album:cover:wedding", true},
		{"album:cover:unknown-album", false},
		{"moments:couple1:title", true},
		{"moments:couple2:description", true},
		{"moments:couple1:featured", true},
		{"moments:couple1:nickname", false},
		{"moments:couple:title", false},
		{"", false},
		{"landing-imag", false},
		{"random:key", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, KnownSettingKey(tt.key))
		})
	}
}

func TestSettingKeyHelpers(t *testing.T) {
	assert.Equal(t, "moments:hero:2", HeroImageKey(2))
	assert.Equal(t, "moments:placeholder:1", PlaceholderKey(1))
	assert.Equal(t, "album:cover:wedding", AlbumCoverKey("wedding"))
	assert.Equal(t, "moments:couple1:featured", CoupleKey(1, "featured"))

	assert.True(t, KnownSettingKey(HeroImageKey(5)))
	assert.True(t, KnownSettingKey(CoupleKey(2, "title")))
}

func TestMomentUpdate_Apply(t *testing.T) {
	m := Moment{
		Title:       "Old title",
		Description: "Old description",
		Category:    "moments",
		Section:     "moments",
		Caption:     "Old caption",
		Image:       "/uploads/old.jpg",
	}

	newTitle := "New title"
	newImage := "https://bucket.s3.ap-south-1.amazonaws.com/new.jpg"
	MomentUpdate{Title: &newTitle, Image: &newImage}.Apply(&m)

	assert.Equal(t, "New title", m.Title)
	assert.Equal(t, "Old description", m.Description)
	assert.Equal(t, "Old caption", m.Caption)
	assert.Equal(t, newImage, m.Image)
}
