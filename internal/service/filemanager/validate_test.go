package filemanager

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"spisovka/internal/domain"
	models "spisovka/internal/domain/models/filemanager"
)

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]models.FileItem) []models.FileItem
		wantErr string
	}{
		{
			name:   "valid tree",
			mutate: func(items []models.FileItem) []models.FileItem { return items },
		},
		{
			name: "duplicate id",
			mutate: func(items []models.FileItem) []models.FileItem {
				return append(items, file("f1", "", testNow))
			},
			wantErr: "duplicate id",
		},
		{
			name: "parent is a file",
			mutate: func(items []models.FileItem) []models.FileItem {
				return append(items, file("orphan", "f0", testNow))
			},
			wantErr: "is not a folder",
		},
		{
			name: "dangling parent",
			mutate: func(items []models.FileItem) []models.FileItem {
				return append(items, file("orphan", "gone", testNow))
			},
			wantErr: "is not a folder",
		},
		{
			name: "folder with file fields",
			mutate: func(items []models.FileItem) []models.FileItem {
				items[1].URL = "https://x"
				return items
			},
			wantErr: "carries file fields",
		},
		{
			name: "cycle",
			mutate: func(items []models.FileItem) []models.FileItem {
				items[1].ParentID = "C" // A under its own grandchild
				return items
			},
			wantErr: "cycle",
		},
		{
			name: "unknown type",
			mutate: func(items []models.FileItem) []models.FileItem {
				items[0].Type = "link"
				return items
			},
			wantErr: "type",
		},
		{
			name: "name too long",
			mutate: func(items []models.FileItem) []models.FileItem {
				items[0].Name = strings.Repeat("x", 300)
				return items
			},
			wantErr: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItems(tt.mutate(sampleTree()))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateFolderName(t *testing.T) {
	assert.NoError(t, validateFolderName("Faktúry"))
	assert.ErrorIs(t, validateFolderName(""), domain.ErrValidation)
	assert.ErrorIs(t, validateFolderName(strings.Repeat("á", 121)), domain.ErrValidation)
}
