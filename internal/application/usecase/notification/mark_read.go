package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
)

// MarkReadInput represents the input for acknowledging notifications.
// An empty IDs slice marks every notification of the user as read.
type MarkReadInput struct {
	UserID uuid.UUID
	IDs    []uuid.UUID
}

// MarkReadOutput represents the output of acknowledging notifications.
type MarkReadOutput struct {
	Updated int64
}

// MarkReadUseCase marks notifications as read.
type MarkReadUseCase struct {
	notificationRepo adapter.NotificationRepository
}

// NewMarkReadUseCase creates a new MarkReadUseCase instance.
func NewMarkReadUseCase(notificationRepo adapter.NotificationRepository) *MarkReadUseCase {
	return &MarkReadUseCase{
		notificationRepo: notificationRepo,
	}
}

// Execute marks the given notifications, or all of them, as read. Already
// read or foreign ids are skipped.
func (uc *MarkReadUseCase) Execute(ctx context.Context, input MarkReadInput) (*MarkReadOutput, error) {
	updated, err := uc.notificationRepo.MarkRead(ctx, input.UserID, input.IDs)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return &MarkReadOutput{Updated: updated}, nil
}
