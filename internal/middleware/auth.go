package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/loveeee/ledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// RequestIDKey is the context key for the request ID set by Trace.
	RequestIDKey contextKey = "request_id"
)

// GetUserID extracts the authenticated user ID from the context.
// Returns empty string if the request carried no valid token.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithUser returns a copy of ctx carrying the authenticated identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// UnauthorizedFunc writes the response for a rejected token.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

func defaultUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusUnauthorized)
}

// RequireAuth rejects requests without a valid bearer token and adds the
// user ID and email of valid ones to the request context.
func RequireAuth(jwtManager *auth.JWTManager, onFail UnauthorizedFunc) func(http.Handler) http.Handler {
	if onFail == nil {
		onFail = defaultUnauthorized
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				onFail(w, r, err)
				return
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				onFail(w, r, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID(), claims.Email)))
		})
	}
}

// OptionalAuth lets anonymous requests through. A token that is present
// must still be valid; a bad one is rejected rather than ignored.
func OptionalAuth(jwtManager *auth.JWTManager, onFail UnauthorizedFunc) func(http.Handler) http.Handler {
	if onFail == nil {
		onFail = defaultUnauthorized
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := auth.BearerToken(r.Header.Get("Authorization"))
			if errors.Is(err, auth.ErrMissingToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				onFail(w, r, err)
				return
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				onFail(w, r, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID(), claims.Email)))
		})
	}
}
