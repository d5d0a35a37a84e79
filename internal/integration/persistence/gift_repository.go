package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

// giftRepository implements the adapter.GiftRepository interface.
type giftRepository struct {
	db *gorm.DB
}

// NewGiftRepository creates a new gift repository instance.
func NewGiftRepository(db *gorm.DB) adapter.GiftRepository {
	return &giftRepository{
		db: db,
	}
}

// Create inserts a new gift.
func (r *giftRepository) Create(ctx context.Context, gift *entity.Gift) error {
	return dbFromContext(ctx, r.db).Create(model.GiftFromEntity(gift)).Error
}

// FindByID retrieves a gift by ID, including soft-deleted rows.
func (r *giftRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gift, error) {
	var giftModel model.GiftModel
	result := dbFromContext(ctx, r.db).Where("id = ?", id).First(&giftModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return giftModel.ToEntity(), nil
}

// FindByGroupAndRequester lists a requester's gifts in a group, newest first.
func (r *giftRepository) FindByGroupAndRequester(ctx context.Context, groupID, requesterID uuid.UUID) ([]*entity.Gift, error) {
	var giftModels []model.GiftModel
	result := dbFromContext(ctx, r.db).
		Where("group_id = ? AND requester_id = ?", groupID, requesterID).
		Order("created_at DESC").
		Find(&giftModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toGiftEntities(giftModels), nil
}

// FindVisibleByGroup lists the non-deleted gifts of a group requested by
// anyone but excludeRequester.
func (r *giftRepository) FindVisibleByGroup(ctx context.Context, groupID, excludeRequester uuid.UUID, onlyClaimableBy *uuid.UUID) ([]*entity.Gift, error) {
	query := dbFromContext(ctx, r.db).
		Where("group_id = ? AND requester_id <> ? AND deleted_by_requester = ?", groupID, excludeRequester, false)
	if onlyClaimableBy != nil {
		query = query.Where("claimant_id IS NULL OR claimant_id = ?", *onlyClaimableBy)
	}

	var giftModels []model.GiftModel
	if err := query.Order("created_at ASC").Find(&giftModels).Error; err != nil {
		return nil, err
	}
	return toGiftEntities(giftModels), nil
}

// Update saves the editable fields of a gift. Claim columns are left alone so
// a concurrent claim is never overwritten.
func (r *giftRepository) Update(ctx context.Context, gift *entity.Gift) error {
	return dbFromContext(ctx, r.db).
		Model(&model.GiftModel{ID: gift.ID}).
		Select("name", "description", "url", "image_url", "updated_at").
		Updates(model.GiftFromEntity(gift)).Error
}

// SoftDelete flags a gift as deleted by its requester.
func (r *giftRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Model(&model.GiftModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"deleted_by_requester": true, "updated_at": time.Now().UTC()}).Error
}

// HardDelete removes the gift row only while it is unclaimed.
func (r *giftRepository) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := dbFromContext(ctx, r.db).
		Where("id = ? AND claimant_id IS NULL", id).
		Delete(&model.GiftModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Claim is a single-statement compare-and-swap on the claimant column.
func (r *giftRepository) Claim(ctx context.Context, id, claimantID uuid.UUID, at time.Time) (bool, error) {
	result := dbFromContext(ctx, r.db).
		Model(&model.GiftModel{}).
		Where("id = ? AND claimant_id IS NULL AND deleted_by_requester = ?", id, false).
		Updates(map[string]any{"claimant_id": claimantID, "claimed_at": at, "updated_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Unclaim clears the claimant when it still equals claimantID.
func (r *giftRepository) Unclaim(ctx context.Context, id, claimantID uuid.UUID) (bool, error) {
	result := dbFromContext(ctx, r.db).
		Model(&model.GiftModel{}).
		Where("id = ? AND claimant_id = ?", id, claimantID).
		Updates(map[string]any{"claimant_id": nil, "claimed_at": nil, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func toGiftEntities(models []model.GiftModel) []*entity.Gift {
	gifts := make([]*entity.Gift, len(models))
	for i := range models {
		gifts[i] = models[i].ToEntity()
	}
	return gifts
}
