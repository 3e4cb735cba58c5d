package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Behrad-Mahdavi/NexusOs/internal/auth"
)

// AuthMiddleware handles access token authentication
type AuthMiddleware struct {
	auth *auth.Service
}

// NewAuthMiddleware creates new auth middleware
func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{auth: authService}
}

// Authenticate verifies the access token from the Authorization header.
// Websocket clients cannot set headers, so the access_token query
// parameter is accepted as well.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "provide Authorization header with Bearer token")
			return
		}

		claims, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
				slog.Debug("rejected access token", "error", err, "token_prefix", maskToken(token), "remote_addr", r.RemoteAddr)
				respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			slog.Error("failed to authenticate request", "error", err, "request_id", requestID(r))
			respondError(w, http.StatusInternalServerError, "internal_error", "authentication error")
			return
		}

		slog.Debug("authenticated request", "user_id", claims.UserID())

		ctx := ContextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken extracts the bearer token from request headers
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		return strings.TrimSpace(authHeader)
	}

	return r.URL.Query().Get("access_token")
}

// maskToken returns first 8 chars of a token for safe logging
func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}
