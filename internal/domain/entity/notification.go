package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies what triggered a notification.
type NotificationKind string

const (
	NotificationGiftModified NotificationKind = "gift_modified"
	NotificationGiftDeleted  NotificationKind = "gift_deleted"
	NotificationAssignment   NotificationKind = "assignment"
	NotificationEventDay     NotificationKind = "event_day"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID               uuid.UUID
	TargetUserID     uuid.UUID
	GroupID          uuid.UUID
	Kind             NotificationKind
	Message          string
	OriginalGiftName *string
	IsRead           bool
	CreatedAt        time.Time
	// Group information (populated when listing)
	GroupName string
}

// NewNotification creates a new unread Notification entity.
func NewNotification(targetUserID, groupID uuid.UUID, kind NotificationKind, message string) *Notification {
	return &Notification{
		ID:           uuid.New(),
		TargetUserID: targetUserID,
		GroupID:      groupID,
		Kind:         kind,
		Message:      message,
		CreatedAt:    time.Now().UTC(),
	}
}
