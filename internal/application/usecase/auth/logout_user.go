package auth

import (
	"context"
	"log/slog"

	"github.com/giftcircle/backend/internal/application/adapter"
)

// LogoutUserInput represents the input for user logout.
type LogoutUserInput struct {
	RefreshToken string
}

// LogoutUserUseCase ends the session behind a refresh token.
type LogoutUserUseCase struct {
	tokens adapter.TokenService
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokens adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{tokens: tokens}
}

// Execute always succeeds from the caller's view; the client drops its
// tokens either way.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) error {
	if input.RefreshToken == "" {
		return nil
	}
	if err := uc.tokens.EndSession(ctx, input.RefreshToken); err != nil {
		slog.WarnContext(ctx, "Failed to end session on logout", "error", err)
	}
	return nil
}
