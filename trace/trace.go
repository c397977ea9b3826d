// Package trace carries a per-request correlation ID through context
// so every outbound attempt of a request, including failover retries,
// shares the same ID.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions.
type contextKey string

const (
	requestIDKey contextKey = "request_id"

	// HeaderXRequestID is the header name used for request correlation.
	HeaderXRequestID = "X-Request-ID"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// IDFromContext returns the request ID from context if present.
func IDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// EnsureRequestID returns an existing request ID from context or
// generates a new one.
func EnsureRequestID(ctx context.Context) string {
	if id, ok := IDFromContext(ctx); ok {
		return id
	}
	return uuid.New().String()
}
