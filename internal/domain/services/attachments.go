package services

import (
	"context"

	models "spisovka/internal/domain/models/filemanager"
	fm "spisovka/internal/domain/services/filemanager"
)

// AttachmentTarget identifies one attachment list and who is acting on it.
type AttachmentTarget struct {
	SpisID   string
	Category models.Category
	User     fm.Actor
}

// UpdateItemResult is the item after an update plus notices for the user.
type UpdateItemResult struct {
	Item    models.FileItem `json:"item"`
	Notices []fm.Notice     `json:"notices"`
}

// AttachmentService runs file manager operations against stored records.
// Every call loads the current list, migrating legacy items first.
type AttachmentService interface {
	View(ctx context.Context, t AttachmentTarget, folderID string) (*fm.View, error)

	// CreateFolder returns (nil, nil) for a blank name
	CreateFolder(ctx context.Context, t AttachmentTarget, req *models.CreateFolderRequest) (*models.FileItem, error)

	Upload(ctx context.Context, t AttachmentTarget, folderID string, files []*fm.UploadFile) (*fm.DropResult, error)
	UpdateItem(ctx context.Context, t AttachmentTarget, itemID string, req *models.UpdateItemRequest) (*UpdateItemResult, error)

	// Delete removes the item and its subtree. Without confirmed it returns
	// *domain.ConfirmationRequiredError and changes nothing.
	Delete(ctx context.Context, t AttachmentTarget, itemID string, confirmed bool) (*fm.DeleteResult, error)

	MoveTargets(ctx context.Context, t AttachmentTarget, itemID string) ([]models.FileItem, error)
}

// MigrationReport summarizes a batch legacy migration.
type MigrationReport struct {
	Scanned  int `json:"scanned"`
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

// MigrationService rewrites every stored legacy list into the current schema
type MigrationService interface {
	MigrateAll(ctx context.Context, dryRun bool) (*MigrationReport, error)
}
