package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// NotificationModel represents the notifications table in the database.
type NotificationModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TargetUserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	GroupID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind             string    `gorm:"type:varchar(30);not null"`
	Message          string    `gorm:"type:text;not null"`
	OriginalGiftName *string   `gorm:"type:varchar(200)"`
	IsRead           bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null;index"`
	// Group information (joined from groups table)
	GroupName string `gorm:"->;-:migration"`
}

// TableName returns the table name for the NotificationModel.
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToEntity converts a NotificationModel to a domain Notification entity.
func (m *NotificationModel) ToEntity() *entity.Notification {
	return &entity.Notification{
		ID:               m.ID,
		TargetUserID:     m.TargetUserID,
		GroupID:          m.GroupID,
		Kind:             entity.NotificationKind(m.Kind),
		Message:          m.Message,
		OriginalGiftName: m.OriginalGiftName,
		IsRead:           m.IsRead,
		CreatedAt:        m.CreatedAt,
		GroupName:        m.GroupName,
	}
}

// NotificationFromEntity creates a NotificationModel from a domain Notification entity.
func NotificationFromEntity(n *entity.Notification) *NotificationModel {
	return &NotificationModel{
		ID:               n.ID,
		TargetUserID:     n.TargetUserID,
		GroupID:          n.GroupID,
		Kind:             string(n.Kind),
		Message:          n.Message,
		OriginalGiftName: n.OriginalGiftName,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
	}
}
