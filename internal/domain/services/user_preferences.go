package services

import (
	"context"

	"spisovka/internal/domain/models"
)

// UserPreferencesService manages per-user settings that shape the file
// manager: theme and the name recorded as creator of new items.
type UserPreferencesService interface {
	// GetPreferences returns stored preferences merged over the defaults
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)

	// UpdatePreferences validates and applies a partial update
	UpdatePreferences(ctx context.Context, userID string, req *models.UpdatePreferencesRequest) (*models.UserPreferences, error)
}
