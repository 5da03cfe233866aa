package auth

import (
	"context"
	"errors"
	"fmt"

	"spisovka/internal/domain"
	"spisovka/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a spis (and its attachment lists) if they created it.
type OwnerBasedAuthorizer struct {
	spisRepo repositories.SpisRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(spisRepo repositories.SpisRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{spisRepo: spisRepo}
}

// CanAccessSpis checks if user owns the spis
func (a *OwnerBasedAuthorizer) CanAccessSpis(ctx context.Context, userID, spisID string) error {
	// SpisRepository.GetByID already filters by userID (ownership check)
	// If it returns not found, user doesn't own the spis
	_, err := a.spisRepo.GetByID(ctx, spisID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("access denied to spis %s: %w", spisID, domain.ErrForbidden)
		}
		return fmt.Errorf("check spis access: %w", err)
	}
	return nil
}
