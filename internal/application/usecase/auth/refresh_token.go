package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// RefreshTokenInput represents the input for token refresh.
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenOutput holds the replacement session.
type RefreshTokenOutput struct {
	Session *adapter.Session
}

// RefreshTokenUseCase trades a refresh token for a new session. Each refresh
// token works once.
type RefreshTokenUseCase struct {
	tokens adapter.TokenService
}

// NewRefreshTokenUseCase creates a new RefreshTokenUseCase instance.
func NewRefreshTokenUseCase(tokens adapter.TokenService) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{tokens: tokens}
}

// Execute rotates the session behind input.RefreshToken.
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error) {
	if input.RefreshToken == "" {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeMissingFields, "refresh token is required", nil)
	}

	session, err := uc.tokens.RotateSession(ctx, input.RefreshToken)
	if errors.Is(err, domainerror.ErrExpiredToken) {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeExpiredToken, "refresh token has expired, please log in again", err)
	}
	if errors.Is(err, domainerror.ErrInvalidToken) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"invalid, expired or already used refresh token",
			err,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	return &RefreshTokenOutput{Session: session}, nil
}
