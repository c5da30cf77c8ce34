// Package context carries per-call identifiers used for log correlation
// and upstream request tracing.
package context

import (
	stdctx "context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const (
	// RequestIDKey is the context key for request IDs
	RequestIDKey contextKey = iota
	// ToolNameKey is the context key for the tool being dispatched
	ToolNameKey
)

// NewRequestID generates a new unique request ID
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request ID to the context
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, RequestIDKey, requestID)
}

// EnsureRequestID returns ctx unchanged when it already carries a request ID,
// otherwise a child context with a fresh one.
func EnsureRequestID(ctx stdctx.Context) stdctx.Context {
	if RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, NewRequestID())
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithToolName records which tool a call is serving.
func WithToolName(parent stdctx.Context, name string) stdctx.Context {
	return stdctx.WithValue(parent, ToolNameKey, name)
}

// ToolNameFromContext returns the tool name stored by WithToolName.
func ToolNameFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if name, ok := ctx.Value(ToolNameKey).(string); ok {
		return name
	}
	return ""
}
