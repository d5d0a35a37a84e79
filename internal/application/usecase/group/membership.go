// Package group contains group-related use cases.
package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// RequireMembership loads a group and the caller's membership in it.
// A missing group is not-found; a non-member is an authorization error.
func RequireMembership(ctx context.Context, groupRepo adapter.GroupRepository, groupID, userID uuid.UUID) (*entity.Group, *entity.Membership, error) {
	group, err := groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, nil, domainerror.NewGroupNotFoundError()
	}

	member, err := groupRepo.FindMemberByGroupAndUser(ctx, groupID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return nil, nil, domainerror.NewNotGroupMemberError()
	}

	return group, member, nil
}

// joinLocked creates a membership for userID. It must run inside
// TxManager.WithGroupLock so the pairings flag it reads cannot change
// before the insert commits.
func joinLocked(ctx context.Context, groupRepo adapter.GroupRepository, groupID, userID uuid.UUID) (*entity.Group, *entity.Membership, error) {
	group, err := groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, nil, domainerror.NewGroupNotFoundError()
	}

	if group.Archived {
		return nil, nil, domainerror.NewGroupArchivedError()
	}

	if group.JoinClosed() {
		return nil, nil, domainerror.NewGroupError(
			domainerror.ErrCodeJoinClosed,
			"the draw has already been made, this group no longer accepts members",
			domainerror.ErrJoinClosed,
		)
	}

	isMember, err := groupRepo.IsUserMemberOfGroup(ctx, groupID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return nil, nil, domainerror.NewGroupError(
			domainerror.ErrCodeUserAlreadyMember,
			"you are already a member of this group",
			domainerror.ErrUserAlreadyMember,
		)
	}

	member := entity.NewMembership(groupID, userID)
	if err := groupRepo.CreateMember(ctx, member); err != nil {
		return nil, nil, fmt.Errorf("failed to add member: %w", err)
	}

	return group, member, nil
}

// requireCreator rejects anyone but the group creator.
func requireCreator(group *entity.Group, userID uuid.UUID) error {
	if group.CreatorID != userID {
		return domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupCreator,
			"only the group creator can perform this action",
			domainerror.ErrNotGroupCreator,
		)
	}
	return nil
}
