package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// PairingRepository defines the interface for Secret Santa pairing persistence.
type PairingRepository interface {
	// CreateBatch inserts all pairings of a draw.
	CreateBatch(ctx context.Context, pairings []*entity.Pairing) error

	// FindByGiver retrieves the pairing whose giver is giverID.
	FindByGiver(ctx context.Context, groupID, giverID uuid.UUID) (*entity.Pairing, error)

	// FindByGroup lists every pairing of a group.
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Pairing, error)

	// CountByGroup counts the pairings of a group.
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int, error)
}
