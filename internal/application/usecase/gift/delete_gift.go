package gift

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// DeleteGiftInput represents the input for removing a gift.
type DeleteGiftInput struct {
	GiftID      uuid.UUID
	RequesterID uuid.UUID
}

// DeleteGiftOutput represents the output of removing a gift.
type DeleteGiftOutput struct {
	// SoftDeleted is true when the gift was claimed and its row was kept.
	SoftDeleted bool
}

// DeleteGiftUseCase removes a gift: unclaimed gifts are hard-deleted,
// claimed ones are flagged and their claimant is notified.
type DeleteGiftUseCase struct {
	giftRepo  adapter.GiftRepository
	groupRepo adapter.GroupRepository
	notifier  adapter.Notifier
}

// NewDeleteGiftUseCase creates a new DeleteGiftUseCase instance.
func NewDeleteGiftUseCase(giftRepo adapter.GiftRepository, groupRepo adapter.GroupRepository, notifier adapter.Notifier) *DeleteGiftUseCase {
	return &DeleteGiftUseCase{
		giftRepo:  giftRepo,
		groupRepo: groupRepo,
		notifier:  notifier,
	}
}

// Execute performs the removal.
func (uc *DeleteGiftUseCase) Execute(ctx context.Context, input DeleteGiftInput) (*DeleteGiftOutput, error) {
	gift, group, err := loadOwnedGift(ctx, uc.giftRepo, uc.groupRepo, input.GiftID, input.RequesterID)
	if err != nil {
		return nil, err
	}

	if !gift.IsClaimed() {
		removed, err := uc.giftRepo.HardDelete(ctx, gift.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete gift: %w", err)
		}
		if removed {
			return &DeleteGiftOutput{SoftDeleted: false}, nil
		}

		// Claimed between the read and the delete.
		gift, err = uc.giftRepo.FindByID(ctx, gift.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload gift: %w", err)
		}
		if gift == nil {
			return &DeleteGiftOutput{SoftDeleted: false}, nil
		}
	}

	if err := uc.giftRepo.SoftDelete(ctx, gift.ID); err != nil {
		return nil, fmt.Errorf("failed to soft delete gift: %w", err)
	}
	if gift.ClaimantID != nil {
		notifyClaimant(ctx, uc.notifier, group, *gift.ClaimantID, entity.NotificationGiftDeleted, gift.Name)
	}

	return &DeleteGiftOutput{SoftDeleted: true}, nil
}
