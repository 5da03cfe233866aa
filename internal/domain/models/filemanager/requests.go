package filemanager

import "spisovka/internal/httputil"

// CreateFolderRequest creates a folder inside FolderID ("" for root).
type CreateFolderRequest struct {
	Name     string `json:"name"`
	FolderID string `json:"folder_id"`
}

// UpdateItemRequest moves an item and/or edits its description.
// FolderID is tri-state: absent keeps the parent, null moves to root.
type UpdateItemRequest struct {
	FolderID    httputil.OptionalString `json:"folder_id"`
	Description *string                 `json:"description"`
}
