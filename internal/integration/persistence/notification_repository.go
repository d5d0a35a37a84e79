package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

// notificationRepository implements the adapter.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance.
func NewNotificationRepository(db *gorm.DB) adapter.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// Create inserts a notification.
func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return dbFromContext(ctx, r.db).Create(model.NotificationFromEntity(notification)).Error
}

// FindUnreadByUser lists the unread notifications of a user, newest first.
func (r *notificationRepository) FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Notification, error) {
	return r.list(ctx, userID, true, 0)
}

// FindByUser lists the most recent notifications of a user.
func (r *notificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	return r.list(ctx, userID, false, limit)
}

func (r *notificationRepository) list(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := dbFromContext(ctx, r.db).
		Table("notifications n").
		Select("n.*, COALESCE(g.name, '') AS group_name").
		Joins("LEFT JOIN groups g ON g.id = n.group_id").
		Where("n.target_user_id = ?", userID)
	if unreadOnly {
		query = query.Where("n.is_read = ?", false)
	}
	query = query.Order("n.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []model.NotificationModel
	if err := query.Scan(&models).Error; err != nil {
		return nil, err
	}

	notifications := make([]*entity.Notification, len(models))
	for i := range models {
		notifications[i] = models[i].ToEntity()
	}
	return notifications, nil
}

// MarkRead marks the given notifications of userID as read. An empty ids marks all.
func (r *notificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := dbFromContext(ctx, r.db).
		Model(&model.NotificationModel{}).
		Where("target_user_id = ? AND is_read = ?", userID, false)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	result := query.Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
