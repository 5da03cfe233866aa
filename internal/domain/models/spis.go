package models

import (
	"encoding/json"
	"time"

	"spisovka/internal/domain/models/filemanager"
)

// Spis is an order/quote file record. It owns one flat attachment list per
// category; lists are stored as raw JSON so that legacy shapes survive until
// the file manager migrates them.
type Spis struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Locked    bool            `json:"locked" db:"locked"`
	Documents json.RawMessage `json:"documents" db:"documents"`
	Photos    json.RawMessage `json:"photos" db:"photos"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Attachments returns the raw list stored for a category.
func (s *Spis) Attachments(category filemanager.Category) json.RawMessage {
	switch category {
	case filemanager.CategoryPhotos:
		return s.Photos
	default:
		return s.Documents
	}
}

// SetAttachments replaces the raw list stored for a category.
func (s *Spis) SetAttachments(category filemanager.Category, raw json.RawMessage) {
	switch category {
	case filemanager.CategoryPhotos:
		s.Photos = raw
	default:
		s.Documents = raw
	}
}

// CreateSpisRequest is the payload for creating a record.
type CreateSpisRequest struct {
	Name string `json:"name"`
}

// SetLockedRequest toggles the read-only flag of a record.
type SetLockedRequest struct {
	Locked *bool `json:"locked"`
}
