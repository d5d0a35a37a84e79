package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// JoinGroupInput represents the input for joining a group by code.
type JoinGroupInput struct {
	Code   string
	UserID uuid.UUID
}

// JoinGroupOutput represents the output of joining a group.
type JoinGroupOutput struct {
	Group  *entity.Group
	Member *entity.Membership
}

// JoinGroupUseCase handles joining a group with its shareable code.
type JoinGroupUseCase struct {
	groupRepo adapter.GroupRepository
	txManager adapter.TxManager
}

// NewJoinGroupUseCase creates a new JoinGroupUseCase instance.
func NewJoinGroupUseCase(groupRepo adapter.GroupRepository, txManager adapter.TxManager) *JoinGroupUseCase {
	return &JoinGroupUseCase{
		groupRepo: groupRepo,
		txManager: txManager,
	}
}

// Execute performs the join under the group lock.
func (uc *JoinGroupUseCase) Execute(ctx context.Context, input JoinGroupInput) (*JoinGroupOutput, error) {
	group, err := uc.groupRepo.FindGroupByJoinCode(ctx, NormalizeJoinCode(input.Code))
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupNotFoundError()
	}

	output := &JoinGroupOutput{}
	err = uc.txManager.WithGroupLock(ctx, group.ID, func(ctx context.Context) error {
		g, m, err := joinLocked(ctx, uc.groupRepo, group.ID, input.UserID)
		if err != nil {
			return err
		}
		output.Group, output.Member = g, m
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
