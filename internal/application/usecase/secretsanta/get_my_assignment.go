package secretsanta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// NotDrawnMessage is returned while the group has no pairings yet.
const NotDrawnMessage = "Los emparejamientos aún no han sido realizados"

// GetMyAssignmentInput represents the input for reading the caller's receiver.
type GetMyAssignmentInput struct {
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// GetMyAssignmentOutput represents the caller's assignment.
type GetMyAssignmentOutput struct {
	Assignment entity.Assignment
	Message    string
}

// GetMyAssignmentUseCase returns the receiver drawn for the caller.
type GetMyAssignmentUseCase struct {
	groupRepo   adapter.GroupRepository
	pairingRepo adapter.PairingRepository
	userRepo    adapter.UserRepository
}

// NewGetMyAssignmentUseCase creates a new GetMyAssignmentUseCase instance.
func NewGetMyAssignmentUseCase(
	groupRepo adapter.GroupRepository,
	pairingRepo adapter.PairingRepository,
	userRepo adapter.UserRepository,
) *GetMyAssignmentUseCase {
	return &GetMyAssignmentUseCase{
		groupRepo:   groupRepo,
		pairingRepo: pairingRepo,
		userRepo:    userRepo,
	}
}

// Execute returns the caller's receiver, or HasPairing=false before the draw.
func (uc *GetMyAssignmentUseCase) Execute(ctx context.Context, input GetMyAssignmentInput) (*GetMyAssignmentOutput, error) {
	g, _, err := group.RequireMembership(ctx, uc.groupRepo, input.GroupID, input.UserID)
	if err != nil {
		return nil, err
	}
	if !g.IsSecretSanta() {
		return nil, domainerror.NewSecretSantaError(domainerror.ErrCodeNotSecretSantaGroup, "this group is not in secret santa mode", domainerror.ErrNotSecretSantaGroup)
	}
	if !g.PairingsDone {
		return &GetMyAssignmentOutput{Message: NotDrawnMessage}, nil
	}

	pairing, err := uc.pairingRepo.FindByGiver(ctx, g.ID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pairing: %w", err)
	}
	if pairing == nil {
		slog.Error("Pairing missing for member of drawn group",
			"invariant", true,
			"group_id", g.ID,
			"user_id", input.UserID,
		)
		return nil, domainerror.NewInvariantError("pairing_per_member", fmt.Sprintf("group %s has no pairing for giver %s", g.ID, input.UserID))
	}

	receiver, err := uc.userRepo.FindByID(ctx, pairing.ReceiverID)
	if errors.Is(err, domainerror.ErrUserNotFound) {
		slog.Error("Receiver of pairing not found",
			"invariant", true,
			"group_id", g.ID,
			"receiver_id", pairing.ReceiverID,
		)
		return nil, domainerror.NewInvariantError("pairing_receiver_exists", fmt.Sprintf("receiver %s of group %s not found", pairing.ReceiverID, g.ID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find receiver: %w", err)
	}

	return &GetMyAssignmentOutput{
		Assignment: entity.Assignment{
			HasPairing:   true,
			ReceiverID:   receiver.ID,
			ReceiverName: receiver.Name,
		},
	}, nil
}
