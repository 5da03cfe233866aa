package filemanager

import (
	"time"
)

// ItemType distinguishes folders from files in the flat attachment list.
type ItemType string

const (
	TypeFolder ItemType = "folder"
	TypeFile   ItemType = "file"
)

// RootFolderID is the parent reference of top-level items.
// Stored lists may carry null instead; both decode to "".
const RootFolderID = ""

// FileItem is one node of the virtual filesystem kept on a Spis record.
// Tree edges are the ParentID references; the list itself is flat.
type FileItem struct {
	ID        string    `json:"id"`
	Type      ItemType  `json:"type"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`

	// File only
	URL         string `json:"url,omitempty"`
	StoragePath string `json:"storagePath,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Sent        bool   `json:"sent,omitempty"`
	Supplier    string `json:"supplier,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (i *FileItem) IsFolder() bool {
	return i.Type == TypeFolder
}

// IsRoot reports whether the item sits at the top level.
func (i *FileItem) IsRoot() bool {
	return i.ParentID == RootFolderID
}

// HasFileFields reports whether any file-only field is populated.
func (i *FileItem) HasFileFields() bool {
	return i.URL != "" || i.StoragePath != "" || i.Description != "" ||
		i.Category != "" || i.Sent || i.Supplier != ""
}

// RawItem is an item as decoded from storage before legacy migration.
type RawItem map[string]any

// Category names the attachment list of a Spis record.
type Category string

const (
	CategoryDocuments Category = "documents"
	CategoryPhotos    Category = "photos"
)

// Valid reports whether c is a known attachment category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDocuments, CategoryPhotos:
		return true
	}
	return false
}
