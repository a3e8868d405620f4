package httpx

import (
	"context"
	"net/http"

	"bookshelf/internal/platform/logging"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context carrying the user ID.
func ContextWithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	return logging.RequestID(r.Context())
}

// ContextWithRequestID returns a new context carrying the request ID, which
// log lines written through logging.Ctx pick up.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return logging.WithRequestID(ctx, requestID)
}
