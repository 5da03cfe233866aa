package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey      contextKey = "userID"
	displayNameKey contextKey = "displayName"
)

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// WithUser adds the authenticated user's id and display name to the request context
func WithUser(r *http.Request, userID, displayName string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, displayNameKey, displayName)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// GetDisplayName retrieves the user's display name, empty if unknown
func GetDisplayName(r *http.Request) string {
	name, _ := r.Context().Value(displayNameKey).(string)
	return name
}
