package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Behrad-Mahdavi/NexusOs/internal/storage"
)

func newTestService(now *time.Time) *Service {
	clock := func() time.Time { return *now }
	tokens := NewTokenManager(TokenConfig{SecretKey: "test-secret", TTL: time.Hour, Issuer: "nexus-test"}).WithClock(clock)
	svc := NewService(storage.NewMemoryRepository(), NewPasswordHasherWithCost(bcrypt.MinCost), tokens, NewMemoryRevocationStore(clock))
	svc.now = clock
	return svc
}

func TestService_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(&now)

	user, err := svc.SignUp(ctx, "  Sara@Example.com ", "long-enough-password")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if user.Email != "sara@example.com" {
		t.Errorf("email = %q, want normalized", user.Email)
	}

	if _, err := svc.SignUp(ctx, "sara@example.com", "another-password"); !errors.Is(err, ErrUserExists) {
		t.Errorf("SignUp() duplicate error = %v, want %v", err, ErrUserExists)
	}

	session, err := svc.SignIn(ctx, "sara@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if session.TokenType != "Bearer" || session.AccessToken == "" {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.User.LastSignInAt == nil {
		t.Error("expected last sign-in to be recorded")
	}

	claims, err := svc.Authenticate(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if claims.UserID() != user.ID {
		t.Errorf("claims user = %q, want %q", claims.UserID(), user.ID)
	}
}

func TestService_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(&now)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"bad email", "not-an-email", "long-enough-password", ErrInvalidEmail},
		{"short password", "a@example.com", "short", ErrWeakPassword},
		{"long password", "a@example.com", string(make([]byte, 73)), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SignUp(ctx, tt.email, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("SignUp() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_SignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(&now)

	if _, err := svc.SignUp(ctx, "sara@example.com", "long-enough-password"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := svc.SignIn(ctx, "sara@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "long-enough-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn() error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestService_SignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(&now)

	var signedOut string
	svc.OnSignOut(func(userID string) { signedOut = userID })

	user, err := svc.SignUp(ctx, "sara@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	session, err := svc.SignIn(ctx, "sara@example.com", "long-enough-password")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	claims, err := svc.Authenticate(ctx, session.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if err := svc.SignOut(ctx, claims); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}

	if signedOut != user.ID {
		t.Errorf("sign-out hook got %q, want %q", signedOut, user.ID)
	}
	if _, err := svc.Authenticate(ctx, session.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Authenticate() after sign-out error = %v, want %v", err, ErrInvalidToken)
	}
}
