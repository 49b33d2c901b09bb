package auth

import "context"

type contextKey string

const sessionContextKey contextKey = "adminSession"

// WithSession adds the admin session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// FromContext extracts the admin session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	return session, ok
}

// IsAdmin reports whether the request context carries a valid admin session
func IsAdmin(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}
