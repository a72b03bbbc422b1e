package httputil

import (
	"context"
	"net/http"
)

// Private key type so request-context values cannot collide.
type contextKey string

const (
	userIDKey contextKey = "userID"
)

// WithUserID attaches the authenticated user id to the request.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID returns the authenticated user id, or "" for anonymous
// requests (the public render and submission surface).
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
