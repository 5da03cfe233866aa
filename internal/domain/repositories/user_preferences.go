package repositories

import (
	"context"

	"spisovka/internal/domain/models"
)

// UserPreferencesRepository stores one JSONB preferences document per user.
type UserPreferencesRepository interface {
	// GetByUserID returns nil, nil when the user has never saved preferences
	GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error)

	// Upsert writes prefs and refreshes its timestamps from the row
	Upsert(ctx context.Context, prefs *models.UserPreferences) error
}
