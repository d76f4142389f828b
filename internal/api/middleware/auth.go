package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/demonkingdom/internal/api/apierr"
	"github.com/mcoot/demonkingdom/internal/middleware"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/auth"
)

type contextKey string

const playerIDContextKey contextKey = "player_id"

// PlayerIDHeader carries the chat platform's user id of the caller
const PlayerIDHeader = middleware.PlayerIDHeader

// GatewayAuth rejects requests whose bearer token does not match the
// configured gateway token. It passes everything through when auth is disabled.
func GatewayAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if err := authService.Verify(token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Caller reads the acting player id from the X-Player-ID header
func Caller() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(PlayerIDHeader))
			if raw == "" {
				apierr.WriteError(w, apierr.NewInvalidRequestError(PlayerIDHeader+" header is required"))
				return
			}
			id, err := model.ParsePlayerID(raw)
			if err != nil {
				apierr.WriteError(w, apierr.NewInvalidRequestError(PlayerIDHeader+" must be a numeric id"))
				return
			}

			ctx := context.WithValue(r.Context(), playerIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the gateway token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetPlayerID returns the calling player's id from the request context
func GetPlayerID(ctx context.Context) (model.PlayerID, bool) {
	id, ok := ctx.Value(playerIDContextKey).(model.PlayerID)
	return id, ok
}

// MustGetPlayerID returns the calling player's id or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	id, ok := GetPlayerID(ctx)
	if !ok {
		panic("no player id in context - caller middleware not applied?")
	}
	return id
}
