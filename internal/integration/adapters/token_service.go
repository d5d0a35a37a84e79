// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/persistence"
)

const (
	issuer = "giftcircle"

	// rememberMeFactor stretches both lifetimes when the user asks to stay signed in.
	rememberMeFactor = 4

	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// sessionClaims is the JWT payload. Refresh tokens carry the session id as
// their jti; access tokens get a throwaway one.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenDurations configures token lifetimes.
type TokenDurations struct {
	Access  time.Duration
	Refresh time.Duration
}

type tokenService struct {
	secret    []byte
	durations TokenDurations
	sessions  persistence.SessionRepository
	clock     adapter.Clock
}

// TokenOption customizes a token service.
type TokenOption func(*tokenService)

// WithTokenClock signs and verifies tokens against clock instead of the wall clock.
func WithTokenClock(clock adapter.Clock) TokenOption {
	return func(s *tokenService) {
		s.clock = clock
	}
}

// NewTokenService creates an HS256 token service backed by sessions.
func NewTokenService(secret string, durations TokenDurations, sessions persistence.SessionRepository, opts ...TokenOption) adapter.TokenService {
	if durations.Access <= 0 {
		durations.Access = 15 * time.Minute
	}
	if durations.Refresh <= 0 {
		durations.Refresh = 7 * 24 * time.Hour
	}
	s := &tokenService{
		secret:    []byte(secret),
		durations: durations,
		sessions:  sessions,
		clock:     NewSystemClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueSession opens a session row and signs both tokens for it.
func (s *tokenService) IssueSession(ctx context.Context, userID uuid.UUID, email string, rememberMe bool) (*adapter.Session, error) {
	accessTTL, refreshTTL := s.durations.Access, s.durations.Refresh
	if rememberMe {
		accessTTL *= rememberMeFactor
		refreshTTL *= rememberMeFactor
	}

	now := s.clock.Now().UTC()
	sessionID := uuid.New()

	access, err := s.sign(userID, email, audienceAccess, uuid.New(), now, accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.sign(userID, email, audienceRefresh, sessionID, now, refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if err := s.sessions.Open(ctx, sessionID, userID, rememberMe, now.Add(refreshTTL)); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	return &adapter.Session{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: now.Add(accessTTL),
	}, nil
}

// VerifyAccessToken checks signature, issuer, audience and expiry.
func (s *tokenService) VerifyAccessToken(_ context.Context, token string) (*adapter.Identity, error) {
	claims, userID, err := s.parse(token, audienceAccess)
	if err != nil {
		return nil, err
	}
	return &adapter.Identity{UserID: userID, Email: claims.Email}, nil
}

// RotateSession revokes the session named by the refresh token and issues a
// new one. The revoke is conditional, so a replayed token loses.
func (s *tokenService) RotateSession(ctx context.Context, refreshToken string) (*adapter.Session, error) {
	claims, userID, err := s.parse(refreshToken, audienceRefresh)
	if err != nil {
		return nil, err
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad session id", domainerror.ErrInvalidToken)
	}

	revoked, rememberMe, err := s.sessions.Revoke(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	if !revoked {
		return nil, fmt.Errorf("%w: session revoked or expired", domainerror.ErrInvalidToken)
	}

	return s.IssueSession(ctx, userID, claims.Email, rememberMe)
}

// EndSession revokes the session when the token is still verifiable.
// Unknown, expired and already revoked sessions are not an error.
func (s *tokenService) EndSession(ctx context.Context, refreshToken string) error {
	claims, _, err := s.parse(refreshToken, audienceRefresh)
	if err != nil {
		return nil
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil
	}
	if _, _, err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *tokenService) sign(userID uuid.UUID, email, audience string, id uuid.UUID, now time.Time, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Issuer:    issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *tokenService) parse(token, audience string) (*sessionClaims, uuid.UUID, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, uuid.Nil, fmt.Errorf("%w: %w", domainerror.ErrInvalidToken, domainerror.ErrExpiredToken)
	}
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: %v", domainerror.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: bad subject", domainerror.ErrInvalidToken)
	}
	return claims, userID, nil
}
