// Package identity owns sessions, credentials, and the resolver that keeps
// the current profile in sync with auth events.
package identity

import (
	"context"
	"time"

	"rdfportal/internal/models"
)

// Session is the ephemeral credential state for one signed-in account. The
// application only ever holds a read-only copy; the token itself is the
// source of truth.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	JTI       string    `json:"-"`
	// Recovery marks a short-lived session minted for the password reset
	// flow; it grants nothing beyond resetPassword.
	Recovery bool `json:"recovery,omitempty"`
}

// AuthError is a credential or token failure with a message safe to show to
// the user.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NewAuthError returns an AuthError with the given user-facing message.
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// Provider is the identity operations surface consumed by handlers and the
// resolver. Implemented by Service; mocked in tests.
type Provider interface {
	GetSession(ctx context.Context, token string) (*Session, error)
	SignUp(ctx context.Context, email, password, fullName string, reason *string) (*models.Profile, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, *models.Profile, error)
	SignOut(ctx context.Context, session *Session) error
	ResetPasswordForEmail(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, recoveryToken, newPassword string) error
	LoadProfile(ctx context.Context, userID string) (*models.Profile, error)
}
