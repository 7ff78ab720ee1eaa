package models

import "time"

// Moment represents one uploaded image plus its descriptive metadata.
// Image is a reference: either a root-relative path ("/uploads/...") served
// by this backend, or an absolute object-store URL. URL is the resolved,
// fetchable form and is never persisted.
type Moment struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Section     string    `json:"section" db:"section"`
	Caption     string    `json:"caption" db:"caption"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	URL         string    `json:"url,omitempty" db:"-"`
}

// MomentUpdate carries a partial update of a moment's mutable fields. Nil
// fields are left unchanged; Image is only replaced when a new file was
// uploaded alongside the update.
type MomentUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Section     *string
	Caption     *string
	Image       *string
}

// Apply merges the update into m.
func (u MomentUpdate) Apply(m *Moment) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.Section != nil {
		m.Section = *u.Section
	}
	if u.Caption != nil {
		m.Caption = *u.Caption
	}
	if u.Image != nil {
		m.Image = *u.Image
	}
}

// MomentMetadata is one entry of the parallel metadata array accompanying a
// batch upload.
type MomentMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Section     string `json:"section"`
	Caption     string `json:"caption"`
}

// BatchItemResult reports the outcome for one file of a batch upload. Items
// are independent: a failed item does not roll back the ones already
// inserted.
type BatchItemResult struct {
	Index int    `json:"index"`
	OK    bool   `json:"ok"`
	ID    int64  `json:"id,omitempty"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}
