package group

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// PreviewInviteInput represents the input for previewing an invitation.
type PreviewInviteInput struct {
	Token string
}

// PreviewInviteOutput describes the group an invitation points to.
type PreviewInviteOutput struct {
	GroupName       string
	GameMode        entity.GameMode
	CelebrationType entity.CelebrationType
	EventDate       time.Time
	InviterName     string
	Email           string
	ExpiresAt       time.Time
}

// PreviewInviteUseCase shows invitation details before login.
type PreviewInviteUseCase struct {
	groupRepo adapter.GroupRepository
	userRepo  adapter.UserRepository
	clock     adapter.Clock
}

// NewPreviewInviteUseCase creates a new PreviewInviteUseCase instance.
func NewPreviewInviteUseCase(groupRepo adapter.GroupRepository, userRepo adapter.UserRepository, clock adapter.Clock) *PreviewInviteUseCase {
	return &PreviewInviteUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		clock:     clock,
	}
}

// Execute resolves a pending, unexpired invitation.
func (uc *PreviewInviteUseCase) Execute(ctx context.Context, input PreviewInviteInput) (*PreviewInviteOutput, error) {
	invite, err := findUsableInvite(ctx, uc.groupRepo, input.Token, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.FindGroupByID(ctx, invite.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupNotFoundError()
	}

	var inviterName string
	if inviter, err := uc.userRepo.FindByID(ctx, invite.InvitedBy); err == nil {
		inviterName = inviter.Name
	}

	return &PreviewInviteOutput{
		GroupName:       group.Name,
		GameMode:        group.GameMode,
		CelebrationType: group.CelebrationType,
		EventDate:       group.EventDate,
		InviterName:     inviterName,
		Email:           invite.Email,
		ExpiresAt:       invite.ExpiresAt,
	}, nil
}

// findUsableInvite resolves token to a pending invite. An invite found past
// its deadline is flipped to expired on the way out.
func findUsableInvite(ctx context.Context, groupRepo adapter.GroupRepository, token string, now time.Time) (*entity.GroupInvite, error) {
	invite, err := groupRepo.FindInviteByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	switch {
	case invite == nil || invite.Status == entity.InviteStatusAccepted:
		return nil, inviteNotFound()
	case invite.Status == entity.InviteStatusPending && invite.ExpiredAt(now):
		if _, err := groupRepo.TransitionInvite(ctx, invite.ID, entity.InviteStatusPending, entity.InviteStatusExpired); err != nil {
			slog.WarnContext(ctx, "Failed to mark invite expired", "invite_id", invite.ID, "error", err)
		}
		fallthrough
	case invite.Status == entity.InviteStatusExpired:
		return nil, domainerror.NewGroupError(domainerror.ErrCodeInviteExpired, "invite has expired", domainerror.ErrInviteExpired)
	}
	return invite, nil
}
