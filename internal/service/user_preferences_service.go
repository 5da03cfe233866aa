package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"spisovka/internal/config"
	"spisovka/internal/domain"
	"spisovka/internal/domain/models"
	"spisovka/internal/domain/repositories"
	"spisovka/internal/domain/services"
)

// UserPreferencesService implements the UserPreferencesService interface
type UserPreferencesService struct {
	prefsRepo repositories.UserPreferencesRepository
	logger    *slog.Logger
}

// NewUserPreferencesService creates a new user preferences service
func NewUserPreferencesService(
	prefsRepo repositories.UserPreferencesRepository,
	logger *slog.Logger,
) services.UserPreferencesService {
	return &UserPreferencesService{
		prefsRepo: prefsRepo,
		logger:    logger,
	}
}

// getDefaultPreferences returns default preferences with namespaced structure
func (s *UserPreferencesService) getDefaultPreferences(userID string) *models.UserPreferences {
	now := time.Now()
	return &models.UserPreferences{
		UserID: userID,
		Preferences: models.JSONMap{
			"ui": map[string]interface{}{
				"theme": models.ThemeLight,
			},
			"files": map[string]interface{}{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetPreferences retrieves preferences for a user
func (s *UserPreferencesService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	prefs, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	// If no preferences exist yet, return default preferences
	if prefs == nil {
		s.logger.Debug("no preferences found, returning defaults", "user_id", userID)
		prefs = s.getDefaultPreferences(userID)
	}

	return prefs, nil
}

// UpdatePreferences updates user preferences (partial or full update)
func (s *UserPreferencesService) UpdatePreferences(ctx context.Context, userID string, req *models.UpdatePreferencesRequest) (*models.UserPreferences, error) {
	if err := validateUpdatePreferences(req); err != nil {
		return nil, err
	}

	// Get existing preferences or create new ones
	existing, err := s.prefsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get existing preferences: %w", err)
	}
	if existing == nil {
		existing = s.getDefaultPreferences(userID)
	}

	// Apply partial updates (only update namespaces that are provided)
	if req.UI != nil {
		if err := existing.SetUI(req.UI); err != nil {
			return nil, fmt.Errorf("update ui namespace: %w", err)
		}
	}

	if req.Files != nil {
		req.Files.DisplayName = strings.TrimSpace(req.Files.DisplayName)
		if err := existing.SetFiles(req.Files); err != nil {
			return nil, fmt.Errorf("update files namespace: %w", err)
		}
	}

	existing.UpdatedAt = time.Now()

	if err := s.prefsRepo.Upsert(ctx, existing); err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}

	s.logger.Info("user preferences updated",
		"user_id", userID,
		"has_ui", req.UI != nil,
		"has_files", req.Files != nil,
	)

	return existing, nil
}

func validateUpdatePreferences(req *models.UpdatePreferencesRequest) error {
	if req.UI != nil {
		err := validation.ValidateStruct(req.UI,
			validation.Field(&req.UI.Theme, validation.Required, validation.In(models.ThemeLight, models.ThemeDark)),
		)
		if err != nil {
			return fmt.Errorf("%w: ui %v", domain.ErrValidation, err)
		}
	}
	if req.Files != nil {
		err := validation.ValidateStruct(req.Files,
			validation.Field(&req.Files.DisplayName, validation.RuneLength(0, config.MaxDisplayNameLength)),
		)
		if err != nil {
			return fmt.Errorf("%w: files %v", domain.ErrValidation, err)
		}
	}
	return nil
}
