package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nribeiro/voyago/internal/service"
)

// ctxKey is unexported so other packages cannot collide with our context keys.
type ctxKey int

const userIDKey ctxKey = iota

// TokenParser validates a bearer token and returns the user id it names.
// Satisfied by *service.AuthService.
type TokenParser interface {
	ParseToken(token string) (uuid.UUID, *service.Claims, error)
}

// NewAuthHandler returns a middleware that requires a valid "Bearer" token on
// every request it wraps. The authenticated user id is stored on the request
// context; handlers read it back with UserID.
func NewAuthHandler(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, _, err := parser.ParseToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id stored by NewAuthHandler.
// The boolean is false on requests that did not pass through it.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// unauthorized writes the API's uniform error body with a 401.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    http.StatusUnauthorized,
		"code":      "UNAUTHORIZED",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
