// Package notification lists and acknowledges in-app notifications.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// HistoryLimit caps the full notification listing.
const HistoryLimit = 50

// ListInput represents the input for listing notifications.
type ListInput struct {
	UserID     uuid.UUID
	UnreadOnly bool
}

// ListOutput represents the output of listing notifications.
type ListOutput struct {
	Notifications []*entity.Notification
}

// ListNotificationsUseCase lists a user's notifications, newest first.
type ListNotificationsUseCase struct {
	notificationRepo adapter.NotificationRepository
}

// NewListNotificationsUseCase creates a new ListNotificationsUseCase instance.
func NewListNotificationsUseCase(notificationRepo adapter.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{
		notificationRepo: notificationRepo,
	}
}

// Execute lists unread notifications, or the most recent HistoryLimit ones.
func (uc *ListNotificationsUseCase) Execute(ctx context.Context, input ListInput) (*ListOutput, error) {
	var (
		notifications []*entity.Notification
		err           error
	)
	if input.UnreadOnly {
		notifications, err = uc.notificationRepo.FindUnreadByUser(ctx, input.UserID)
	} else {
		notifications, err = uc.notificationRepo.FindByUser(ctx, input.UserID, HistoryLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &ListOutput{
		Notifications: notifications,
	}, nil
}
