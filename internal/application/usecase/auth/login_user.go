package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// LoginUserInput carries credentials. RememberMe stretches the session.
type LoginUserInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// LoginUserOutput is a fresh session for the matched user.
type LoginUserOutput struct {
	Session *adapter.Session
	User    *entity.User
}

// LoginUserUseCase exchanges credentials for a session.
type LoginUserUseCase struct {
	users     adapter.UserRepository
	passwords adapter.PasswordHasher
	tokens    adapter.TokenService
}

// NewLoginUserUseCase creates a new LoginUserUseCase instance.
func NewLoginUserUseCase(
	users adapter.UserRepository,
	passwords adapter.PasswordHasher,
	tokens adapter.TokenService,
) *LoginUserUseCase {
	return &LoginUserUseCase{users: users, passwords: passwords, tokens: tokens}
}

// Execute checks the password and opens a session. Unknown addresses and
// wrong passwords fail identically.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	user, err := uc.users.FindByEmail(ctx, NormalizeEmail(input.Email))
	switch {
	case errors.Is(err, domainerror.ErrUserNotFound):
		return nil, invalidCredentials()
	case err != nil:
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if uc.passwords.Compare(user.PasswordHash, input.Password) != nil {
		return nil, invalidCredentials()
	}

	session, err := uc.tokens.IssueSession(ctx, user.ID, user.Email, input.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &LoginUserOutput{Session: session, User: user}, nil
}

func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)
}
