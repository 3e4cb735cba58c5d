package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testManager(now *time.Time) *TokenManager {
	return NewTokenManager(TokenConfig{
		SecretKey: "test-secret-key",
		TTL:       time.Hour,
		Issuer:    "test-issuer",
	}).WithClock(func() time.Time { return *now })
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	manager := testManager(&now)

	token, err := manager.Issue("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token.Value == "" || token.ID == "" {
		t.Fatal("Issue() returned empty token")
	}
	if !token.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want %v", token.ExpiresAt, now.Add(time.Hour))
	}

	claims, err := manager.Validate(token.Value)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Errorf("claims.UserID() = %v, want user-123", claims.UserID())
	}
	if claims.Email != "test@example.com" {
		t.Errorf("claims.Email = %v, want test@example.com", claims.Email)
	}
	if claims.ID != token.ID {
		t.Errorf("claims.ID = %v, want %v", claims.ID, token.ID)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	manager := testManager(&now)

	token, err := manager.Issue("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := manager.Validate(token.Value); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Validate() error = %v, want %v", err, ErrExpiredToken)
	}
}

func TestTokenManager_InvalidTokens(t *testing.T) {
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	manager := testManager(&now)

	other := NewTokenManager(TokenConfig{SecretKey: "other-secret", TTL: time.Hour, Issuer: "test-issuer"}).
		WithClock(func() time.Time { return now })
	forged, err := other.Issue("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	foreignIssuer := NewTokenManager(TokenConfig{SecretKey: "test-secret-key", TTL: time.Hour, Issuer: "someone-else"}).
		WithClock(func() time.Time { return now })
	foreign, err := foreignIssuer.Issue("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", forged.Value},
		{"wrong issuer", foreign.Value},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
