package group

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

const (
	// MaxGroupNameLength is the maximum allowed length for a group name.
	MaxGroupNameLength = 100
	// JoinCodeLength is the number of characters in a join code.
	JoinCodeLength = 8
	// joinCodeAttempts bounds retries on join code collisions.
	joinCodeAttempts = 5
)

// joinCodeAlphabet omits glyphs that are easy to confuse (0/O, 1/I/L).
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CreateGroupInput represents the input for group creation.
type CreateGroupInput struct {
	Name            string
	GameMode        entity.GameMode
	CelebrationType entity.CelebrationType
	EventDate       time.Time
	CreatorID       uuid.UUID
}

// CreateGroupOutput represents the output of group creation.
type CreateGroupOutput struct {
	Group  *entity.Group
	Member *entity.Membership
}

// CreateGroupUseCase handles group creation logic.
type CreateGroupUseCase struct {
	groupRepo adapter.GroupRepository
	txManager adapter.TxManager
}

// NewCreateGroupUseCase creates a new CreateGroupUseCase instance.
func NewCreateGroupUseCase(groupRepo adapter.GroupRepository, txManager adapter.TxManager) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		groupRepo: groupRepo,
		txManager: txManager,
	}
}

// Execute creates the group and enrolls the creator as its first member.
func (uc *CreateGroupUseCase) Execute(ctx context.Context, input CreateGroupInput) (*CreateGroupOutput, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateGroupFields(name, input.CelebrationType, input.EventDate); err != nil {
		return nil, err
	}
	if !input.GameMode.IsValid() {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeInvalidGameMode,
			"game mode must be anonymous_wishlist or secret_santa",
			domainerror.ErrInvalidGameMode,
		)
	}

	code, err := uc.uniqueJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	group := entity.NewGroup(name, input.GameMode, input.CelebrationType, input.EventDate.UTC(), code, input.CreatorID)
	member := entity.NewMembership(group.ID, input.CreatorID)

	err = uc.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.groupRepo.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		if err := uc.groupRepo.CreateMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add creator as member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateGroupOutput{
		Group:  group,
		Member: member,
	}, nil
}

func (uc *CreateGroupUseCase) uniqueJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := GenerateJoinCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		taken, err := uc.groupRepo.ExistsByJoinCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique join code after %d attempts", joinCodeAttempts)
}

// GenerateJoinCode returns a random upper-case join code.
func GenerateJoinCode() (string, error) {
	var sb strings.Builder
	sb.Grow(JoinCodeLength)
	alphabetSize := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < JoinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		sb.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeJoinCode upper-cases and trims a user-typed code.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateGroupFields(name string, celebration entity.CelebrationType, eventDate time.Time) error {
	if name == "" {
		return domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameRequired,
			"group name is required",
			domainerror.ErrGroupNameRequired,
		)
	}
	if len(name) > MaxGroupNameLength {
		return domainerror.NewGroupError(
			domainerror.ErrCodeGroupNameTooLong,
			fmt.Sprintf("group name must be at most %d characters", MaxGroupNameLength),
			domainerror.ErrGroupNameTooLong,
		)
	}
	if !celebration.IsValid() {
		return domainerror.NewGroupError(
			domainerror.ErrCodeInvalidCelebrationType,
			"invalid celebration type",
			domainerror.ErrInvalidCelebrationType,
		)
	}
	if eventDate.IsZero() {
		return domainerror.NewGroupError(
			domainerror.ErrCodeEventDateRequired,
			"event date is required",
			domainerror.ErrEventDateRequired,
		)
	}
	return nil
}
