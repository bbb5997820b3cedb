// Package correlation carries the request correlation ID through contexts so
// that events raised while serving a request can be traced back to it.
package correlation

import "context"

type contextKey struct{}

func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the correlation ID or an empty string
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
