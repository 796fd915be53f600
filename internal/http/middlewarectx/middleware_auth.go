// Package middlewarectx holds the HTTP middleware establishing the caller's
// identity for a request.
//
// AuthMiddleware reads the Authorization header, validates the bearer token
// and, when valid, stores the caller's email and role in the request context.
// It never rejects a request by itself: a missing or invalid token leaves the
// caller anonymous and the authorization policy decides what an anonymous
// caller may reach.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/meuprojeto/portal-estagios/internal/lib/jwt"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Key is the type for request context keys.
type Key string

const (
	// User is the context key holding the caller's email.
	User Key = "email"
	// Role is the context key holding the caller's role.
	Role Key = "role"
)

// UserEmail returns the authenticated caller's email, if any.
func UserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(User).(string)
	return email, ok && email != ""
}

// UserRole returns the authenticated caller's role, if any.
func UserRole(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(Role).(models.Role)
	return role, ok && role.Valid()
}

// AuthMiddleware resolves the caller's identity from a bearer token. Requests
// without a valid token proceed anonymously.
func AuthMiddleware(maker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.With(
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				).Warn("invalid or expired token", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Subject)
			ctx = context.WithValue(ctx, Role, models.Role(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
