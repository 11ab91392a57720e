package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const usernameKey contextKey = "username"

// Username extracts the authenticated caller from the request context.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

// RequireLogin verifies the bearer token and attaches the caller's
// username to the request context. Runs before any store access.
func (m *TokenManager) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := m.Verify(bearerToken(r))
		if err != nil {
			denied(w, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}

// RequireUser is RequireLogin plus an identity check: when the route
// carries a {username} parameter it must equal the caller. Routes
// without the parameter only get the login check.
func (m *TokenManager) RequireUser(next http.Handler) http.Handler {
	return m.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := Username(r.Context())
		if param := chi.URLParam(r, "username"); param != "" && param != caller {
			denied(w, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func denied(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": reason})
}
