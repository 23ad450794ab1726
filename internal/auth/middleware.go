package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"proofmeet-backend/internal/api"
	"proofmeet-backend/internal/models"
	"proofmeet-backend/internal/storage"
)

type contextKey string

const userKey contextKey = "proofmeet_user"

// Middleware resolves the bearer token against the session store and loads
// the owning user into the request context. Expired tokens are rejected even
// if still present in the store.
func Middleware(store storage.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if raw == "" {
				api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
				return
			}

			token, err := store.GetToken(r.Context(), raw)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
					return
				}
				api.Error(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if time.Now().After(token.ExpiresAt) {
				api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
				return
			}

			user, err := store.GetUserByID(r.Context(), token.UserID)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "Invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
