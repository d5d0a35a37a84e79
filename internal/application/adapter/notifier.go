package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// NotificationEvent is a user-targeted event handed to the Notifier.
type NotificationEvent struct {
	Kind         entity.NotificationKind
	TargetUserID uuid.UUID
	GroupID      uuid.UUID
	GroupName    string
	// GiftName is the gift name before the mutation, for gift events.
	GiftName string
	// ReceiverName is the assigned receiver, for assignment events.
	ReceiverName string
}

// Notifier accepts notification events without blocking the caller.
// Delivery failures are handled by the implementation and never returned.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent)
}
