// Package middleware provides HTTP middleware for anonymous visitor sessions.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/distro-catalog/internal/logging"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the visitor's session ID.
const sessionIDKey ContextKey = "sessionID"

// TokenService validates and issues signed session tokens.
// This allows the middleware to work with any token implementation.
type TokenService interface {
	ValidateToken(tokenString string) (SessionIDGetter, error)
	IssueToken(sessionID uuid.UUID) (string, error)
}

// SessionIDGetter is an interface for extracting the session ID from token claims.
type SessionIDGetter interface {
	GetSessionID() uuid.UUID
}

// CookieOptions controls the session cookie written to the client.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Session resolves the visitor's session from its cookie. A missing or
// invalid cookie starts a new session and sets a fresh cookie.
func Session(tokens TokenService, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(opts.Name); err == nil && c.Value != "" {
				if claims, err := tokens.ValidateToken(c.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.GetSessionID())))
					return
				}
			}

			sessionID := uuid.New()
			token, err := tokens.IssueToken(sessionID)
			if err != nil {
				logging.Err(err).Msg("failed to issue session token")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     opts.Name,
				Value:    token,
				Path:     "/",
				MaxAge:   int(opts.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteStrictMode,
			})
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// WithSessionID returns a copy of ctx carrying the session ID.
func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID extracts the visitor's session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	sessionID, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return sessionID, nil
}
