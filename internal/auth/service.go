package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

var (
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")
)

// UserStore is the subset of the repository the auth service needs
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserLastSignIn(ctx context.Context, id string, at time.Time) error
}

// Service handles sign-up, sign-in, sign-out and token authentication
type Service struct {
	users       UserStore
	hasher      *PasswordHasher
	tokens      *TokenManager
	revocations RevocationStore
	onSignOut   func(userID string)
	now         func() time.Time
}

// NewService creates a new auth Service
func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenManager, revocations RevocationStore) *Service {
	return &Service{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		onSignOut:   func(string) {},
		now:         time.Now,
	}
}

// OnSignOut registers a hook called after a successful sign-out
func (s *Service) OnSignOut(fn func(userID string)) {
	s.onSignOut = fn
}

// SignUp creates a new user account
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.MaskedEmail())
	return user, nil
}

// SignIn authenticates a user and issues an access token
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.SessionResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := s.now().UTC()
	if err := s.users.UpdateUserLastSignIn(ctx, user.ID, now); err != nil {
		slog.Warn("failed to record sign-in", "user_id", user.ID, "error", err)
	} else {
		user.LastSignInAt = &now
	}

	return &models.SessionResponse{
		AccessToken: token.Value,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		User:        user,
	}, nil
}

// Authenticate validates an access token and checks it was not signed out
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SignOut revokes the token until it would have expired
func (s *Service) SignOut(ctx context.Context, claims *Claims) error {
	until := s.now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}

	if err := s.revocations.Revoke(ctx, claims.ID, until); err != nil {
		return err
	}

	slog.Info("user signed out", "user_id", claims.UserID())
	s.onSignOut(claims.UserID())
	return nil
}

// User returns the signed-in user
func (s *Service) User(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
