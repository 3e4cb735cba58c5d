package models

import (
	"strings"
	"time"
)

// User is the single owner of every record it created
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

// MaskedEmail returns the email with the local part hidden, for logging
func (u *User) MaskedEmail() string {
	at := strings.IndexByte(u.Email, '@')
	if at < 1 {
		return "***"
	}
	return u.Email[:1] + "***" + u.Email[at:]
}

// CredentialsRequest is used for sign-up and sign-in
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned after a successful sign-in
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
