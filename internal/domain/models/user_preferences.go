package models

import (
	"encoding/json"
	"time"
)

// JSONMap is a type alias for JSONB columns
type JSONMap map[string]interface{}

// Theme values stored under ui.theme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UserPreferences represents user-specific settings.
// All preferences are stored in a single JSONB column with namespaced structure.
type UserPreferences struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Preferences JSONMap   `json:"preferences" db:"preferences"` // Namespaced JSONB: {ui, files}
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UIPreferences represents the ui namespace in preferences
type UIPreferences struct {
	Theme string `json:"theme"` // "light" or "dark"
}

// FilesPreferences represents the files namespace in preferences
type FilesPreferences struct {
	// DisplayName overrides the name recorded as creator of new items
	DisplayName string `json:"display_name,omitempty"`
}

// GetUI extracts the ui namespace from preferences
func (up *UserPreferences) GetUI() (*UIPreferences, error) {
	ui := &UIPreferences{Theme: ThemeLight}
	if err := up.getNamespace("ui", ui); err != nil {
		return nil, err
	}
	return ui, nil
}

// SetUI sets the ui namespace in preferences
func (up *UserPreferences) SetUI(ui *UIPreferences) error {
	return up.setNamespace("ui", ui)
}

// GetFiles extracts the files namespace from preferences
func (up *UserPreferences) GetFiles() (*FilesPreferences, error) {
	files := &FilesPreferences{}
	if err := up.getNamespace("files", files); err != nil {
		return nil, err
	}
	return files, nil
}

// SetFiles sets the files namespace in preferences
func (up *UserPreferences) SetFiles(files *FilesPreferences) error {
	return up.setNamespace("files", files)
}

// IsDark reports whether the user chose the dark theme.
func (up *UserPreferences) IsDark() bool {
	ui, err := up.GetUI()
	return err == nil && ui.Theme == ThemeDark
}

func (up *UserPreferences) getNamespace(key string, out any) error {
	if up.Preferences == nil {
		return nil
	}
	raw, ok := up.Preferences[key]
	if !ok || raw == nil {
		return nil
	}

	// Re-marshal to ensure type safety
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (up *UserPreferences) setNamespace(key string, value any) error {
	if up.Preferences == nil {
		up.Preferences = JSONMap{}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	up.Preferences[key] = m
	return nil
}

// UpdatePreferencesRequest represents the request to update user preferences.
// Only provided namespaces are replaced.
type UpdatePreferencesRequest struct {
	UI    *UIPreferences    `json:"ui"`
	Files *FilesPreferences `json:"files"`
}
