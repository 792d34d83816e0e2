package models

import "context"

// Session carries the bearer token for one view activation. It is passed
// explicitly to each stage instead of being read from ambient storage.
type Session struct {
	Id    string
	Token string
}

type sessionContextKey struct{}

// WithSession attaches the session to a context so request-scoped log fields
// can pick up the session id.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// GetSession retrieves the session from context, or nil if absent.
func GetSession(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}
