package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

type contextKey string

const userContextKey contextKey = "current_user"

// RequireAuth validates the bearer token and loads the current user into the
// request context. Everything behind it is organization-scoped through that
// user.
func RequireAuth(auth *service.AuthService, users repository.UserRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(claims.UserID)
			if err != nil {
				http.Error(w, "failed to load user", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user placed by RequireAuth.
func CurrentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}
