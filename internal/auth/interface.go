package auth

import "spisovka/internal/domain/models"

// JWTVerifier checks bearer tokens for the auth middleware.
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid, signed, unexpired token
	// issued to an authenticated user, or domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close stops background key refresh.
	Close() error
}
