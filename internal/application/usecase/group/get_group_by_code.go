package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// GetGroupByCodeInput represents the input for looking up a group by join code.
type GetGroupByCodeInput struct {
	Code     string
	ViewerID uuid.UUID
}

// GetGroupByCodeOutput represents the output of looking up a group by join code.
type GetGroupByCodeOutput struct {
	Group       *entity.Group
	IsMember    bool
	MemberCount int
	CreatorName string
}

// GetGroupByCodeUseCase resolves a join code to a group preview.
type GetGroupByCodeUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
}

// NewGetGroupByCodeUseCase creates a new GetGroupByCodeUseCase instance.
func NewGetGroupByCodeUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository) *GetGroupByCodeUseCase {
	return &GetGroupByCodeUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Execute performs the lookup.
func (uc *GetGroupByCodeUseCase) Execute(ctx context.Context, input GetGroupByCodeInput) (*GetGroupByCodeOutput, error) {
	group, err := uc.groupRepo.FindGroupByJoinCode(ctx, NormalizeJoinCode(input.Code))
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupNotFoundError()
	}

	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, group.ID, input.ViewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	count, err := uc.groupRepo.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	var creatorName string
	if creator, err := uc.userRepo.FindByID(ctx, group.CreatorID); err == nil {
		creatorName = creator.Name
	}

	return &GetGroupByCodeOutput{
		Group:       group,
		IsMember:    isMember,
		MemberCount: count,
		CreatorName: creatorName,
	}, nil
}
