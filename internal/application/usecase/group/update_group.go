package group

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// UpdateGroupInput represents the input for updating a group.
type UpdateGroupInput struct {
	GroupID         uuid.UUID
	RequesterID     uuid.UUID
	Name            string
	CelebrationType entity.CelebrationType
	EventDate       time.Time
}

// UpdateGroupOutput represents the output of updating a group.
type UpdateGroupOutput struct {
	Group *entity.Group
}

// UpdateGroupUseCase lets the creator edit the group details.
type UpdateGroupUseCase struct {
	groupRepo adapter.GroupRepository
}

// NewUpdateGroupUseCase creates a new UpdateGroupUseCase instance.
func NewUpdateGroupUseCase(groupRepo adapter.GroupRepository) *UpdateGroupUseCase {
	return &UpdateGroupUseCase{
		groupRepo: groupRepo,
	}
}

// Execute performs the update. Game mode is fixed at creation.
func (uc *UpdateGroupUseCase) Execute(ctx context.Context, input UpdateGroupInput) (*UpdateGroupOutput, error) {
	group, err := uc.groupRepo.FindGroupByID(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupNotFoundError()
	}

	if err := requireCreator(group, input.RequesterID); err != nil {
		return nil, err
	}
	if group.Archived {
		return nil, domainerror.NewGroupArchivedError()
	}

	name := strings.TrimSpace(input.Name)
	if err := validateGroupFields(name, input.CelebrationType, input.EventDate); err != nil {
		return nil, err
	}

	group.Name = name
	group.CelebrationType = input.CelebrationType
	group.EventDate = input.EventDate.UTC()
	group.UpdatedAt = time.Now().UTC()

	if err := uc.groupRepo.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return &UpdateGroupOutput{
		Group: group,
	}, nil
}
