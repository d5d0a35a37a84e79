package secretsanta

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// GeneratePairingsInput represents the input for drawing a group's pairings.
type GeneratePairingsInput struct {
	GroupID     uuid.UUID
	RequesterID uuid.UUID
}

// GeneratePairingsOutput represents the output of a successful draw.
type GeneratePairingsOutput struct {
	Count int
}

// GeneratePairingsUseCase handles the Secret Santa draw.
type GeneratePairingsUseCase struct {
	txManager   adapter.TxManager
	groupRepo   adapter.GroupRepository
	pairingRepo adapter.PairingRepository
	notifier    adapter.Notifier
	random      adapter.RandomSource
}

// NewGeneratePairingsUseCase creates a new GeneratePairingsUseCase instance.
func NewGeneratePairingsUseCase(
	txManager adapter.TxManager,
	groupRepo adapter.GroupRepository,
	pairingRepo adapter.PairingRepository,
	notifier adapter.Notifier,
	random adapter.RandomSource,
) *GeneratePairingsUseCase {
	return &GeneratePairingsUseCase{
		txManager:   txManager,
		groupRepo:   groupRepo,
		pairingRepo: pairingRepo,
		notifier:    notifier,
		random:      random,
	}
}

// Execute draws the pairings under the group lock so no member can join
// between reading the member list and setting pairings_done.
func (uc *GeneratePairingsUseCase) Execute(ctx context.Context, input GeneratePairingsInput) (*GeneratePairingsOutput, error) {
	var (
		g        *entity.Group
		members  []*entity.Membership
		pairings []*entity.Pairing
	)

	err := uc.txManager.WithGroupLock(ctx, input.GroupID, func(ctx context.Context) error {
		var err error
		g, err = uc.groupRepo.FindGroupByID(ctx, input.GroupID)
		if err != nil {
			return fmt.Errorf("failed to find group: %w", err)
		}
		if g == nil {
			return domainerror.NewGroupNotFoundError()
		}
		if g.CreatorID != input.RequesterID {
			return domainerror.NewGroupError(domainerror.ErrCodeNotGroupCreator, "only the group creator can generate pairings", domainerror.ErrNotGroupCreator)
		}
		if g.Archived {
			return domainerror.NewGroupArchivedError()
		}
		if !g.IsSecretSanta() {
			return domainerror.NewSecretSantaError(domainerror.ErrCodeNotSecretSantaGroup, "this group is not in secret santa mode", domainerror.ErrNotSecretSantaGroup)
		}
		if g.PairingsDone {
			return domainerror.NewSecretSantaError(domainerror.ErrCodePairingsAlreadyDone, "pairings have already been generated", domainerror.ErrPairingsAlreadyDone)
		}

		members, err = uc.groupRepo.FindMembersByGroupID(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		if len(members) < 2 {
			return domainerror.NewSecretSantaError(domainerror.ErrCodeNotEnoughMembers, "at least two members are required", domainerror.ErrNotEnoughMembers)
		}

		ids := make([]uuid.UUID, len(members))
		for i, m := range members {
			ids[i] = m.UserID
		}
		pairings = Draw(g.ID, ids, uc.random)

		if err := uc.pairingRepo.CreateBatch(ctx, pairings); err != nil {
			return fmt.Errorf("failed to save pairings: %w", err)
		}
		if err := uc.groupRepo.MarkPairingsDone(ctx, g.ID); err != nil {
			return fmt.Errorf("failed to mark pairings done: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Secret santa pairings generated", "group_id", g.ID, "count", len(pairings))

	uc.notifyGivers(ctx, g, members, pairings)

	return &GeneratePairingsOutput{Count: len(pairings)}, nil
}

func (uc *GeneratePairingsUseCase) notifyGivers(ctx context.Context, g *entity.Group, members []*entity.Membership, pairings []*entity.Pairing) {
	if uc.notifier == nil {
		return
	}
	names := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.UserName
	}
	for _, p := range pairings {
		uc.notifier.Notify(ctx, adapter.NotificationEvent{
			Kind:         entity.NotificationAssignment,
			TargetUserID: p.GiverID,
			GroupID:      g.ID,
			GroupName:    g.Name,
			ReceiverName: names[p.ReceiverID],
		})
	}
}
