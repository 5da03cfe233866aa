package services

import "context"

// ResourceAuthorizer checks if a user can access resources.
// Current implementation: ownership-based (user owns the spis).
//
// Services call the authorizer before operating on a record so that
// authorization (who can access) stays separate from identification
// (which record).
type ResourceAuthorizer interface {
	// CanAccessSpis checks if user can access a spis and its attachments
	CanAccessSpis(ctx context.Context, userID, spisID string) error
}
