package group

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// ListGroupsInput selects the caller's active or archived groups.
type ListGroupsInput struct {
	UserID   uuid.UUID
	Archived bool
}

// ListGroupsOutput represents the output of listing groups.
type ListGroupsOutput struct {
	Groups []*entity.GroupListItem
}

// ListGroupsUseCase lists the groups a user belongs to.
type ListGroupsUseCase struct {
	groupRepo adapter.GroupRepository
	clock     adapter.Clock
}

// NewListGroupsUseCase creates a new ListGroupsUseCase instance.
func NewListGroupsUseCase(groupRepo adapter.GroupRepository, clock adapter.Clock) *ListGroupsUseCase {
	return &ListGroupsUseCase{groupRepo: groupRepo, clock: clock}
}

// Execute returns upcoming events soonest first, then events that already
// started, most recent first.
func (uc *ListGroupsUseCase) Execute(ctx context.Context, input ListGroupsInput) (*ListGroupsOutput, error) {
	items, err := uc.groupRepo.FindGroupsByUserID(ctx, input.UserID, input.Archived)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	now := uc.clock.Now()
	for _, item := range items {
		item.Started = item.Group.HasStarted(now)
	}

	slices.SortStableFunc(items, func(a, b *entity.GroupListItem) int {
		switch {
		case a.Started != b.Started:
			if a.Started {
				return 1
			}
			return -1
		case a.Started:
			return b.Group.EventDate.Compare(a.Group.EventDate)
		default:
			return a.Group.EventDate.Compare(b.Group.EventDate)
		}
	})

	return &ListGroupsOutput{Groups: items}, nil
}
