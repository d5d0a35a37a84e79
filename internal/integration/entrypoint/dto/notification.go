package dto

import (
	"time"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// MarkReadRequest lists notifications to acknowledge. Empty means all.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// MarkReadResponse reports how many notifications changed.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// NotificationResponse represents one in-app notification.
type NotificationResponse struct {
	ID               string    `json:"id"`
	GroupID          string    `json:"group_id"`
	GroupName        string    `json:"group_name"`
	Kind             string    `json:"kind"`
	Message          string    `json:"message"`
	OriginalGiftName *string   `json:"original_gift_name,omitempty"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

// NotificationListResponse wraps a notification list.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// ToNotificationListResponse converts notifications.
func ToNotificationListResponse(items []*entity.Notification) NotificationListResponse {
	out := make([]NotificationResponse, len(items))
	for i, n := range items {
		out[i] = NotificationResponse{
			ID:               n.ID.String(),
			GroupID:          n.GroupID.String(),
			GroupName:        n.GroupName,
			Kind:             string(n.Kind),
			Message:          n.Message,
			OriginalGiftName: n.OriginalGiftName,
			IsRead:           n.IsRead,
			CreatedAt:        n.CreatedAt,
		}
	}
	return NotificationListResponse{Notifications: out}
}
