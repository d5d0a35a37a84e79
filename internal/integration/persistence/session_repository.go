package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

// SessionRepository stores refresh-token sessions.
type SessionRepository interface {
	Open(ctx context.Context, id, userID uuid.UUID, rememberMe bool, expiresAt time.Time) error

	// Revoke ends a live session. It reports false when the session is
	// unknown, expired or already revoked, so two concurrent callers can
	// never both revoke the same session.
	Revoke(ctx context.Context, id uuid.UUID) (revoked bool, rememberMe bool, err error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Open(ctx context.Context, id, userID uuid.UUID, rememberMe bool, expiresAt time.Time) error {
	return dbFromContext(ctx, r.db).Create(&model.SessionModel{
		ID:         id,
		UserID:     userID,
		RememberMe: rememberMe,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now().UTC(),
	}).Error
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID) (bool, bool, error) {
	now := time.Now().UTC()
	db := dbFromContext(ctx, r.db)

	result := db.Model(&model.SessionModel{}).
		Where("id = ? AND revoked_at IS NULL AND expires_at > ?", id, now).
		Update("revoked_at", now)
	if result.Error != nil {
		return false, false, result.Error
	}
	if result.RowsAffected != 1 {
		return false, false, nil
	}

	var session model.SessionModel
	if err := db.Select("remember_me").Where("id = ?", id).First(&session).Error; err != nil {
		return true, false, err
	}
	return true, session.RememberMe, nil
}
