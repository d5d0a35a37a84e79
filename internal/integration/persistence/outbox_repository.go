package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new email outbox repository instance.
func NewOutboxRepository(db *gorm.DB) adapter.EmailOutbox {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, email *entity.OutboundEmail) error {
	if err := dbFromContext(ctx, r.db).Create(model.OutboxFromEntity(email)).Error; err != nil {
		return fmt.Errorf("%w: %v", domainerror.ErrOutboxWrite, err)
	}
	return nil
}

// ClaimDue picks candidates, then leases each with a conditional update so
// two workers polling together never both get the same row.
func (r *outboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*entity.OutboundEmail, error) {
	db := dbFromContext(ctx, r.db)
	live := []string{string(entity.OutboxQueued), string(entity.OutboxSending)}

	var candidates []model.OutboxModel
	err := db.Where("state IN ? AND not_before <= ?", live, now).
		Order("not_before ASC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	leaseUntil := now.Add(lease)
	claimed := make([]*entity.OutboundEmail, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		res := db.Model(&model.OutboxModel{}).
			Where("id = ? AND state IN ? AND not_before <= ?", c.ID, live, now).
			Updates(map[string]any{
				"state":      string(entity.OutboxSending),
				"not_before": leaseUntil,
			})
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected != 1 {
			continue
		}
		c.State = string(entity.OutboxSending)
		c.NotBefore = leaseUntil
		claimed = append(claimed, c.ToEntity())
	}
	return claimed, nil
}

func (r *outboxRepository) Settle(ctx context.Context, email *entity.OutboundEmail) error {
	return dbFromContext(ctx, r.db).Save(model.OutboxFromEntity(email)).Error
}

func (r *outboxRepository) Get(ctx context.Context, id uuid.UUID) (*entity.OutboundEmail, error) {
	var m model.OutboxModel
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerror.ErrOutboundEmailNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.ToEntity(), nil
}

func (r *outboxRepository) ListFor(ctx context.Context, address string) ([]*entity.OutboundEmail, error) {
	var models []model.OutboxModel
	err := dbFromContext(ctx, r.db).
		Where("to_address = ?", address).
		Order("enqueued_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	emails := make([]*entity.OutboundEmail, len(models))
	for i := range models {
		emails[i] = models[i].ToEntity()
	}
	return emails, nil
}

func (r *outboxRepository) PurgeDelivered(ctx context.Context, cutoff time.Time) (int64, error) {
	res := dbFromContext(ctx, r.db).
		Where("state = ? AND finished_at < ?", string(entity.OutboxDelivered), cutoff).
		Delete(&model.OutboxModel{})
	return res.RowsAffected, res.Error
}
