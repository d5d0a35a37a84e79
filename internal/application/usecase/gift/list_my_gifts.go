package gift

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// ListMyGiftsInput represents the input for listing the requester's own gifts.
type ListMyGiftsInput struct {
	GroupID     uuid.UUID
	RequesterID uuid.UUID
}

// ListMyGiftsOutput represents the output of listing the requester's own gifts.
type ListMyGiftsOutput struct {
	Gifts []*entity.Gift
}

// ListMyGiftsUseCase lists the requester's gifts, soft-deleted ones included.
type ListMyGiftsUseCase struct {
	giftRepo  adapter.GiftRepository
	groupRepo adapter.GroupRepository
}

// NewListMyGiftsUseCase creates a new ListMyGiftsUseCase instance.
func NewListMyGiftsUseCase(giftRepo adapter.GiftRepository, groupRepo adapter.GroupRepository) *ListMyGiftsUseCase {
	return &ListMyGiftsUseCase{
		giftRepo:  giftRepo,
		groupRepo: groupRepo,
	}
}

// Execute lists the gifts.
func (uc *ListMyGiftsUseCase) Execute(ctx context.Context, input ListMyGiftsInput) (*ListMyGiftsOutput, error) {
	if _, _, err := group.RequireMembership(ctx, uc.groupRepo, input.GroupID, input.RequesterID); err != nil {
		return nil, err
	}

	gifts, err := uc.giftRepo.FindByGroupAndRequester(ctx, input.GroupID, input.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}

	return &ListMyGiftsOutput{
		Gifts: gifts,
	}, nil
}
