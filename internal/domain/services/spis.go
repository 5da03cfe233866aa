package services

import (
	"context"

	"spisovka/internal/domain/models"
)

// SpisService defines the record operations needed to own attachment lists
type SpisService interface {
	CreateSpis(ctx context.Context, userID string, req *models.CreateSpisRequest) (*models.Spis, error)
	GetSpis(ctx context.Context, userID, spisID string) (*models.Spis, error)

	// SetLocked makes a record read-only (or writable again). A locked
	// record refuses every attachment mutation.
	SetLocked(ctx context.Context, userID, spisID string, locked bool) (*models.Spis, error)
}
