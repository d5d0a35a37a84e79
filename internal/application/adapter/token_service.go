package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is what a signed-in client holds: a short-lived access token and
// a single-use refresh token.
type Session struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// Identity is the bearer of a verified access token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// TokenService issues and verifies sessions. Refresh tokens that are
// malformed, expired, revoked or already used fail with an error wrapping
// domainerror.ErrInvalidToken.
type TokenService interface {
	IssueSession(ctx context.Context, userID uuid.UUID, email string, rememberMe bool) (*Session, error)

	VerifyAccessToken(ctx context.Context, token string) (*Identity, error)

	// RotateSession consumes refreshToken and issues a replacement with the
	// same lifetime class. A token can be rotated at most once.
	RotateSession(ctx context.Context, refreshToken string) (*Session, error)

	// EndSession revokes the session behind refreshToken.
	EndSession(ctx context.Context, refreshToken string) error
}
