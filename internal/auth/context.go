package auth

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type ctxKey struct{}

// WithSession stores the authenticated session on ctx.
func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the session put there by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *model.Session {
	if s, ok := ctx.Value(ctxKey{}).(*model.Session); ok {
		return s
	}
	return nil
}

// Username is a convenience for logging who performed a mutation.
func Username(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.Username
	}
	return ""
}
