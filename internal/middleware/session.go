package middleware

import (
	"context"
	"net/http"

	"github.com/euroffersurv/rewards-api/internal/pkg/response"
)

type contextKey string

const userIDKey contextKey = "user_id"

// SessionResolver resolves an opaque session ID to a user ID. An empty
// user ID with a nil error means the session is unknown or expired.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (string, error)
}

// Session authenticates requests by session cookie and puts the resolved
// user ID into the request context.
func Session(cookieName string, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				response.Unauthorized(w, "authentication required")
				return
			}

			userID, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				response.InternalError(w)
				return
			}
			if userID == "" {
				response.Unauthorized(w, "session expired")
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserID returns a context carrying the authenticated user ID, the way
// the session middleware sets it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the authenticated user ID from the request context, or
// the empty string when the request is unauthenticated.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
