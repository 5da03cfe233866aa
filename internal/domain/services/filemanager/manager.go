package filemanager

import (
	"context"

	models "spisovka/internal/domain/models/filemanager"
)

// Actor is the user performing file manager operations.
type Actor struct {
	ID          string
	DisplayName string
}

// ManagerConfig carries the ambient inputs of a file manager instance.
type ManagerConfig struct {
	IsDark   bool
	User     Actor
	IsLocked bool
}

// Scope identifies the attachment list being managed. It also scopes the
// blob paths: {UserID}/{RecordID}/{Category}/...
type Scope struct {
	UserID   string
	RecordID string
	Category models.Category
}

// UpdateFunc receives every replacement list. It is the only persistence hook.
type UpdateFunc func(ctx context.Context, items []models.FileItem) error

// NoticeLevel classifies a user-facing notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient message for the user.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// View is the navigation state of the manager: the current folder, its
// breadcrumb chain from root and its sorted contents.
type View struct {
	Category models.Category   `json:"category"`
	Current  *models.FileItem  `json:"current_folder"` // nil at root
	Chain    []models.FileItem `json:"breadcrumbs"`
	Contents []models.FileItem `json:"contents"`
	Theme    string            `json:"theme"`
	Locked   bool              `json:"locked"`
	Migrated bool              `json:"migrated,omitempty"`
}

// UploadFailure describes a dropped file that did not make it into the list.
type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// DropResult reports a drop batch.
type DropResult struct {
	Added   []models.FileItem `json:"added"`
	Failed  []UploadFailure   `json:"failed"`
	Notices []Notice          `json:"notices"`
}

// BlobError records a blob that could not be removed during a delete.
type BlobError struct {
	ItemID      string `json:"item_id"`
	StoragePath string `json:"storage_path"`
	Error       string `json:"error"`
}

// DeleteResult reports a cascading delete.
type DeleteResult struct {
	RemovedIDs []string    `json:"removed_ids"`
	BlobErrors []BlobError `json:"blob_errors"`
	Notices    []Notice    `json:"notices"`
}

// MoveResult reports a successful move.
type MoveResult struct {
	Item    models.FileItem `json:"item"`
	Notices []Notice        `json:"notices"`
}
