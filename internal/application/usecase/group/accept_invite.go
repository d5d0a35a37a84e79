package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// AcceptInviteInput represents the input for redeeming an invitation.
type AcceptInviteInput struct {
	Token  string
	UserID uuid.UUID
}

// AcceptInviteOutput represents the group joined and the new membership.
type AcceptInviteOutput struct {
	Group      *entity.Group
	Membership *entity.Membership
}

// AcceptInviteUseCase redeems an emailed invitation. The invite is single
// use: the first redemption consumes it, whoever it was addressed to.
type AcceptInviteUseCase struct {
	groupRepo adapter.GroupRepository
	txManager adapter.TxManager
	clock     adapter.Clock
}

// NewAcceptInviteUseCase creates a new AcceptInviteUseCase instance.
func NewAcceptInviteUseCase(groupRepo adapter.GroupRepository, txManager adapter.TxManager, clock adapter.Clock) *AcceptInviteUseCase {
	return &AcceptInviteUseCase{groupRepo: groupRepo, txManager: txManager, clock: clock}
}

// Execute joins the user under the group lock with the same guards as a
// join by code, then consumes the invite in the same transaction.
func (uc *AcceptInviteUseCase) Execute(ctx context.Context, input AcceptInviteInput) (*AcceptInviteOutput, error) {
	invite, err := findUsableInvite(ctx, uc.groupRepo, input.Token, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	out := &AcceptInviteOutput{}
	err = uc.txManager.WithGroupLock(ctx, invite.GroupID, func(ctx context.Context) error {
		consumed, err := uc.groupRepo.TransitionInvite(ctx, invite.ID, entity.InviteStatusPending, entity.InviteStatusAccepted)
		if err != nil {
			return fmt.Errorf("failed to consume invite: %w", err)
		}
		if !consumed {
			return inviteNotFound()
		}

		out.Group, out.Membership, err = joinLocked(ctx, uc.groupRepo, invite.GroupID, input.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func inviteNotFound() error {
	return domainerror.NewGroupError(
		domainerror.ErrCodeInviteNotFound,
		"invite not found or no longer valid",
		domainerror.ErrInviteNotFound,
	)
}
