package logger

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey int

const (
	requestIDKey contextKey = iota
	featureIDKey
)

// WithRequestID returns a new context with the given request ID stored.
// The transport stamps every outgoing request with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFeature returns a new context carrying the feature a request belongs to.
func WithFeature(ctx context.Context, feature string) context.Context {
	return context.WithValue(ctx, featureIDKey, feature)
}

// Feature extracts the feature ID from the context, if any.
func Feature(ctx context.Context) string {
	f, _ := ctx.Value(featureIDKey).(string)
	return f
}
