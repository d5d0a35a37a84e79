package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

// pairingRepository implements the adapter.PairingRepository interface.
type pairingRepository struct {
	db *gorm.DB
}

// NewPairingRepository creates a new pairing repository instance.
func NewPairingRepository(db *gorm.DB) adapter.PairingRepository {
	return &pairingRepository{
		db: db,
	}
}

// CreateBatch inserts all pairings of a draw.
func (r *pairingRepository) CreateBatch(ctx context.Context, pairings []*entity.Pairing) error {
	if len(pairings) == 0 {
		return nil
	}
	models := make([]*model.PairingModel, len(pairings))
	for i, p := range pairings {
		models[i] = model.PairingFromEntity(p)
	}
	return dbFromContext(ctx, r.db).Create(&models).Error
}

// FindByGiver retrieves the pairing whose giver is giverID.
func (r *pairingRepository) FindByGiver(ctx context.Context, groupID, giverID uuid.UUID) (*entity.Pairing, error) {
	var pairingModel model.PairingModel
	result := dbFromContext(ctx, r.db).
		Where("group_id = ? AND giver_id = ?", groupID, giverID).
		First(&pairingModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return pairingModel.ToEntity(), nil
}

// FindByGroup lists every pairing of a group.
func (r *pairingRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Pairing, error) {
	var pairingModels []model.PairingModel
	if err := dbFromContext(ctx, r.db).Where("group_id = ?", groupID).Find(&pairingModels).Error; err != nil {
		return nil, err
	}
	pairings := make([]*entity.Pairing, len(pairingModels))
	for i := range pairingModels {
		pairings[i] = pairingModels[i].ToEntity()
	}
	return pairings, nil
}

// CountByGroup counts the pairings of a group.
func (r *pairingRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&model.PairingModel{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
