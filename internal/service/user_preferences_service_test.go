package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spisovka/internal/domain"
	"spisovka/internal/domain/models"
)

func TestUserPreferencesService_GetDefaults(t *testing.T) {
	repo := &mockPrefsRepo{}
	repo.On("GetByUserID", mock.Anything, ownerID).Return(nil, nil)

	prefs, err := NewUserPreferencesService(repo, discardLogger).GetPreferences(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, prefs.UserID)
	assert.False(t, prefs.IsDark())

	files, err := prefs.GetFiles()
	require.NoError(t, err)
	assert.Empty(t, files.DisplayName)
}

func TestUserPreferencesService_GetError(t *testing.T) {
	repo := &mockPrefsRepo{}
	repo.On("GetByUserID", mock.Anything, ownerID).Return(nil, errors.New("boom"))

	_, err := NewUserPreferencesService(repo, discardLogger).GetPreferences(context.Background(), ownerID)
	assert.Error(t, err)
}

func TestUserPreferencesService_Update(t *testing.T) {
	existing := &models.UserPreferences{UserID: ownerID, Preferences: models.JSONMap{}}
	require.NoError(t, existing.SetFiles(&models.FilesPreferences{DisplayName: "Ján"}))

	repo := &mockPrefsRepo{}
	repo.On("GetByUserID", mock.Anything, ownerID).Return(existing, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	prefs, err := NewUserPreferencesService(repo, discardLogger).UpdatePreferences(context.Background(), ownerID,
		&models.UpdatePreferencesRequest{UI: &models.UIPreferences{Theme: models.ThemeDark}})
	require.NoError(t, err)

	assert.True(t, prefs.IsDark())
	files, err := prefs.GetFiles()
	require.NoError(t, err)
	assert.Equal(t, "Ján", files.DisplayName, "untouched namespace is kept")
	repo.AssertCalled(t, "Upsert", mock.Anything, existing)
}

func TestUserPreferencesService_UpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdatePreferencesRequest
	}{
		{"unknown theme", &models.UpdatePreferencesRequest{UI: &models.UIPreferences{Theme: "sepia"}}},
		{"missing theme", &models.UpdatePreferencesRequest{UI: &models.UIPreferences{}}},
		{"long display name", &models.UpdatePreferencesRequest{Files: &models.FilesPreferences{DisplayName: strings.Repeat("a", 101)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockPrefsRepo{}
			_, err := NewUserPreferencesService(repo, discardLogger).UpdatePreferences(context.Background(), ownerID, tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}
