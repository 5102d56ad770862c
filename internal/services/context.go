package services

import "context"

type contextKey string

const (
	platformContextKey  contextKey = "loom.platform"
	requestIDContextKey contextKey = "loom.request_id"
)

// WithPlatform attaches the canonical platform being operated on to the context.
func WithPlatform(ctx context.Context, platform string) context.Context {
	if platform == "" {
		return ctx
	}
	return context.WithValue(ctx, platformContextKey, platform)
}

// PlatformFromContext extracts the platform attached by WithPlatform.
func PlatformFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(platformContextKey).(string)
	return value, ok && value != ""
}

// WithRequestID attaches a correlation identifier for remote gateway calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext extracts the identifier attached by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(requestIDContextKey).(string)
	return value, ok && value != ""
}
