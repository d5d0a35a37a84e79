package group

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// ArchiveGroupInput represents the input for archiving a group.
type ArchiveGroupInput struct {
	GroupID     uuid.UUID
	RequesterID uuid.UUID
}

// ArchiveGroupOutput represents the output of archiving a group.
type ArchiveGroupOutput struct {
	Group *entity.Group
}

// ArchiveGroupUseCase performs the one-way archive transition.
type ArchiveGroupUseCase struct {
	groupRepo adapter.GroupRepository
	txManager adapter.TxManager
}

// NewArchiveGroupUseCase creates a new ArchiveGroupUseCase instance.
func NewArchiveGroupUseCase(groupRepo adapter.GroupRepository, txManager adapter.TxManager) *ArchiveGroupUseCase {
	return &ArchiveGroupUseCase{
		groupRepo: groupRepo,
		txManager: txManager,
	}
}

// Execute archives the group. Only the creator may archive.
func (uc *ArchiveGroupUseCase) Execute(ctx context.Context, input ArchiveGroupInput) (*ArchiveGroupOutput, error) {
	var group *entity.Group
	err := uc.txManager.WithGroupLock(ctx, input.GroupID, func(ctx context.Context) error {
		g, err := uc.groupRepo.FindGroupByID(ctx, input.GroupID)
		if err != nil {
			return fmt.Errorf("failed to find group: %w", err)
		}
		if g == nil {
			return domainerror.NewGroupNotFoundError()
		}
		if err := requireCreator(g, input.RequesterID); err != nil {
			return err
		}
		if g.Archived {
			return domainerror.NewGroupError(
				domainerror.ErrCodeGroupAlreadyArchived,
				"group is already archived",
				domainerror.ErrGroupAlreadyArchived,
			)
		}

		g.Archived = true
		g.UpdatedAt = time.Now().UTC()
		if err := uc.groupRepo.UpdateGroup(ctx, g); err != nil {
			return fmt.Errorf("failed to archive group: %w", err)
		}
		group = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ArchiveGroupOutput{
		Group: group,
	}, nil
}
