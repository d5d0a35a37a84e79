package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// NotificationRepository defines the interface for in-app notification persistence.
type NotificationRepository interface {
	// Create inserts a notification.
	Create(ctx context.Context, notification *entity.Notification) error

	// FindUnreadByUser lists the unread notifications of a user, newest first.
	FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error)

	// FindByUser lists the most recent notifications of a user.
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error)

	// MarkRead marks the given notifications as read. An empty ids marks all.
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
