package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// ListMembersInput represents the input for listing group members.
type ListMembersInput struct {
	GroupID  uuid.UUID
	ViewerID uuid.UUID
}

// ListMembersOutput represents the output of listing group members.
type ListMembersOutput struct {
	Group   *entity.Group
	Members []*entity.Membership
}

// ListMembersUseCase lists the members of a group in join order.
type ListMembersUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewListMembersUseCase creates a new ListMembersUseCase instance.
func NewListMembersUseCase(groupRepo adapter.GroupRepository) *ListMembersUseCase {
	return &ListMembersUseCase{
		groupRepo: groupRepo,
	}
}

// Execute lists the members when the viewer belongs to the group.
func (uc *ListMembersUseCase) Execute(ctx context.Context, input ListMembersInput) (*ListMembersOutput, error) {
	group, _, err := RequireMembership(ctx, uc.groupRepo, input.GroupID, input.ViewerID)
	if err != nil {
		return nil, err
	}

	members, err := uc.groupRepo.FindMembersByGroupID(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return &ListMembersOutput{
		Group:   group,
		Members: members,
	}, nil
}
