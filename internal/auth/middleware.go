package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"nutriagenda/internal/utils"
)

type ctxKey string

const userKey ctxKey = "user"

// AuthUser is the authenticated identity attached to the request.
// Handlers pass it (or its fields) explicitly into the services; the
// services themselves hold no ambient request state.
type AuthUser struct {
	ID    int
	Email string
	Role  utils.Role
}

// Middleware validates the bearer token and stores the caller identity
// on the request context.
func Middleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			role, ok := utils.ParseRole(claims.Role)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			user := AuthUser{ID: claims.UserID, Email: claims.Email, Role: role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// RequireRole rejects callers whose role does not match. It must run
// after Middleware.
func RequireRole(role utils.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r)
			if !ok || user.Role != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom returns the authenticated caller set by Middleware.
func UserFrom(r *http.Request) (AuthUser, bool) {
	user, ok := r.Context().Value(userKey).(AuthUser)
	return user, ok
}

// WithUser is a test helper for exercising handlers without the full
// middleware chain.
func WithUser(r *http.Request, user AuthUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}
