package logging

import "context"

type contextKey string

const (
	refreshIDKey contextKey = "refresh_id"
	trigger      contextKey = "trigger"
)

// WithRefreshID tags the context with the id of the refresh it belongs to.
func WithRefreshID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, refreshIDKey, id)
}

// WithTrigger records what started a refresh ("startup", "manual", "interval").
func WithTrigger(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, trigger, t)
}

// GetRefreshID retrieves the refresh ID from the context.
// Returns empty string if not present.
func GetRefreshID(ctx context.Context) string {
	if id, ok := ctx.Value(refreshIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTrigger retrieves the refresh trigger from the context.
// Returns empty string if not present.
func GetTrigger(ctx context.Context) string {
	if t, ok := ctx.Value(trigger).(string); ok {
		return t
	}
	return ""
}
