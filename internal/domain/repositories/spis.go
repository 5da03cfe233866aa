package repositories

import (
	"context"
	"encoding/json"

	"spisovka/internal/domain/models"
	"spisovka/internal/domain/models/filemanager"
)

// SpisRepository defines the interface for Spis record data access
type SpisRepository interface {
	// Create inserts a new record; ID, CreatedAt and UpdatedAt are filled in
	Create(ctx context.Context, spis *models.Spis) error

	// GetByID retrieves a record owned by userID
	// Returns domain.ErrNotFound if it does not exist or belongs to someone else
	GetByID(ctx context.Context, id, userID string) (*models.Spis, error)

	// GetForUpdate retrieves a record and locks its row until the surrounding
	// transaction ends. Must run inside TransactionManager.ExecTx.
	GetForUpdate(ctx context.Context, id string) (*models.Spis, error)

	// ListIDs returns the ids of every record, oldest first
	ListIDs(ctx context.Context) ([]string, error)

	// UpdateAttachments replaces the whole attachment list of one category
	UpdateAttachments(ctx context.Context, id string, category filemanager.Category, items json.RawMessage) error

	// SetLocked sets the read-only flag and returns the updated record
	SetLocked(ctx context.Context, id, userID string, locked bool) (*models.Spis, error)
}
