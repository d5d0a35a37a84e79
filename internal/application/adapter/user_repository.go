// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// UserRepository stores accounts. Emails are stored normalized.
type UserRepository interface {
	// Create fails with domainerror.ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByID and FindByEmail fail with domainerror.ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
