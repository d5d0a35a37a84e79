package gift

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// ClaimInput represents the input for marking or unmarking a gift as bought.
type ClaimInput struct {
	GiftID uuid.UUID
	UserID uuid.UUID
}

// ClaimOutput represents the gift after a claim transition.
type ClaimOutput struct {
	Gift *entity.Gift
}

// MarkAsBoughtUseCase moves a gift from Unclaimed to Claimed(user).
type MarkAsBoughtUseCase struct {
	giftRepo  adapter.GiftRepository
	groupRepo adapter.GroupRepository
	clock     adapter.Clock
}

// NewMarkAsBoughtUseCase creates a new MarkAsBoughtUseCase instance.
func NewMarkAsBoughtUseCase(giftRepo adapter.GiftRepository, groupRepo adapter.GroupRepository, clock adapter.Clock) *MarkAsBoughtUseCase {
	return &MarkAsBoughtUseCase{
		giftRepo:  giftRepo,
		groupRepo: groupRepo,
		clock:     clock,
	}
}

// Execute claims the gift. Of several concurrent calls on one gift at most
// one succeeds; the rest get a conflict.
func (uc *MarkAsBoughtUseCase) Execute(ctx context.Context, input ClaimInput) (*ClaimOutput, error) {
	gift, err := uc.loadClaimable(ctx, input)
	if err != nil {
		return nil, err
	}

	if gift.RequesterID == input.UserID {
		return nil, domainerror.NewGiftError(
			domainerror.ErrCodeSelfClaim,
			"you cannot claim your own gift",
			domainerror.ErrSelfClaim,
		)
	}
	if gift.IsClaimed() {
		return nil, alreadyClaimed()
	}

	ok, err := uc.giftRepo.Claim(ctx, gift.ID, input.UserID, uc.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to claim gift: %w", err)
	}
	if !ok {
		return nil, alreadyClaimed()
	}

	return reload(ctx, uc.giftRepo, gift.ID)
}

func (uc *MarkAsBoughtUseCase) loadClaimable(ctx context.Context, input ClaimInput) (*entity.Gift, error) {
	gift, err := loadLiveGift(ctx, uc.giftRepo, input.GiftID)
	if err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.FindGroupByID(ctx, gift.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupNotFoundError()
	}

	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, gift.GroupID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domainerror.NewNotGroupMemberError()
	}
	if group.Archived {
		return nil, domainerror.NewGroupArchivedError()
	}
	return gift, nil
}

// UnmarkAsBoughtUseCase moves a gift from Claimed(user) back to Unclaimed.
type UnmarkAsBoughtUseCase struct {
	giftRepo  adapter.GiftRepository
	groupRepo adapter.GroupRepository
}

// NewUnmarkAsBoughtUseCase creates a new UnmarkAsBoughtUseCase instance.
func NewUnmarkAsBoughtUseCase(giftRepo adapter.GiftRepository, groupRepo adapter.GroupRepository) *UnmarkAsBoughtUseCase {
	return &UnmarkAsBoughtUseCase{
		giftRepo:  giftRepo,
		groupRepo: groupRepo,
	}
}

// Execute releases the claim. Only the claimant may release it.
func (uc *UnmarkAsBoughtUseCase) Execute(ctx context.Context, input ClaimInput) (*ClaimOutput, error) {
	gift, err := loadLiveGift(ctx, uc.giftRepo, input.GiftID)
	if err != nil {
		return nil, err
	}

	if !gift.IsClaimedBy(input.UserID) {
		return nil, notClaimant()
	}

	group, err := uc.groupRepo.FindGroupByID(ctx, gift.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupNotFoundError()
	}
	if group.Archived {
		return nil, domainerror.NewGroupArchivedError()
	}

	ok, err := uc.giftRepo.Unclaim(ctx, gift.ID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to unclaim gift: %w", err)
	}
	if !ok {
		return nil, notClaimant()
	}

	return reload(ctx, uc.giftRepo, gift.ID)
}

func reload(ctx context.Context, giftRepo adapter.GiftRepository, id uuid.UUID) (*ClaimOutput, error) {
	gift, err := giftRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload gift: %w", err)
	}
	if gift == nil {
		return nil, domainerror.NewGiftNotFoundError()
	}
	return &ClaimOutput{Gift: gift}, nil
}

func alreadyClaimed() error {
	return domainerror.NewGiftError(
		domainerror.ErrCodeGiftAlreadyClaimed,
		"this gift was already claimed by someone else",
		domainerror.ErrGiftAlreadyClaimed,
	)
}

func notClaimant() error {
	return domainerror.NewGiftError(
		domainerror.ErrCodeNotGiftClaimant,
		"only the person who claimed this gift can release it",
		domainerror.ErrNotGiftClaimant,
	)
}
