package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// GiftRepository defines the interface for gift ledger persistence.
type GiftRepository interface {
	// Create inserts a new gift.
	Create(ctx context.Context, gift *entity.Gift) error

	// FindByID retrieves a gift by ID, including soft-deleted rows.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gift, error)

	// FindByGroupAndRequester lists a requester's gifts in a group, newest first.
	FindByGroupAndRequester(ctx context.Context, groupID, requesterID uuid.UUID) ([]*entity.Gift, error)

	// FindVisibleByGroup lists the non-deleted gifts of a group not requested by
	// excludeRequester. When onlyClaimableBy is set, gifts claimed by anyone else
	// are filtered out.
	FindVisibleByGroup(ctx context.Context, groupID, excludeRequester uuid.UUID, onlyClaimableBy *uuid.UUID) ([]*entity.Gift, error)

	// Update saves the editable fields of a gift.
	Update(ctx context.Context, gift *entity.Gift) error

	// SoftDelete flags a gift as deleted by its requester.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// HardDelete removes the gift row only while it is unclaimed. It reports
	// whether a row was removed.
	HardDelete(ctx context.Context, id uuid.UUID) (bool, error)

	// Claim sets the claimant when the gift is unclaimed and not deleted.
	// It reports whether the compare-and-swap succeeded.
	Claim(ctx context.Context, id, claimantID uuid.UUID, at time.Time) (bool, error)

	// Unclaim clears the claimant when it equals claimantID.
	// It reports whether the compare-and-swap succeeded.
	Unclaim(ctx context.Context, id, claimantID uuid.UUID) (bool, error)
}
