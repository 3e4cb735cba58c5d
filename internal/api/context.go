package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Behrad-Mahdavi/NexusOs/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// ClaimsFromContext extracts the authenticated claims from context
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// ContextWithClaims adds the authenticated claims to context
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// userID returns the signed-in user, "" when unauthenticated
func userID(r *http.Request) string {
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		return claims.UserID()
	}
	return ""
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
