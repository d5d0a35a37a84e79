// Package auth resolves identities: registration, login and token rotation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

const (
	// MaxNameLength bounds display names shown to other group members.
	MaxNameLength = 100

	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
}

// RegisterUserOutput is the new account and its first session.
type RegisterUserOutput struct {
	Session *adapter.Session
	User    *entity.User
}

// RegisterUserUseCase creates accounts.
type RegisterUserUseCase struct {
	users     adapter.UserRepository
	passwords adapter.PasswordHasher
	tokens    adapter.TokenService
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
func NewRegisterUserUseCase(
	users adapter.UserRepository,
	passwords adapter.PasswordHasher,
	tokens adapter.TokenService,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{users: users, passwords: passwords, tokens: tokens}
}

// Execute validates the input, stores the user and signs them in.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	email := NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if err := validateRegistration(email, name, input.Password); err != nil {
		return nil, err
	}

	hash, err := uc.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(email, name, hash)
	err = uc.users.Create(ctx, user)
	if errors.Is(err, domainerror.ErrEmailAlreadyExists) {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeEmailExists, "email already registered", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := uc.tokens.IssueSession(ctx, user.ID, user.Email, false)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &RegisterUserOutput{Session: session, User: user}, nil
}

func validateRegistration(email, name, password string) error {
	switch {
	case email == "" || name == "" || password == "":
		return domainerror.NewAuthError(domainerror.ErrCodeMissingFields, "email, name and password are required", nil)
	case len(name) > MaxNameLength:
		return domainerror.NewAuthError(domainerror.ErrCodeMissingFields,
			fmt.Sprintf("name must be at most %d characters", MaxNameLength), nil)
	case !IsValidEmail(email):
		return domainerror.NewAuthError(domainerror.ErrCodeInvalidEmail, "invalid email format", domainerror.ErrInvalidEmail)
	case len(password) < MinPasswordLength || len(password) > MaxPasswordLength:
		return domainerror.NewAuthError(domainerror.ErrCodeWeakPassword,
			fmt.Sprintf("password must be %d to %d characters", MinPasswordLength, MaxPasswordLength),
			domainerror.ErrWeakPassword)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether email is a bare address with a dotted domain.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
