package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// EmailOutbox persists outbound emails until a worker delivers them.
type EmailOutbox interface {
	Enqueue(ctx context.Context, email *entity.OutboundEmail) error

	// ClaimDue leases up to limit due emails to the caller. A leased email
	// becomes due again after lease, so a crashed worker's claims are
	// picked up by the next poll.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*entity.OutboundEmail, error)

	// Settle stores the outcome of a send attempt.
	Settle(ctx context.Context, email *entity.OutboundEmail) error

	Get(ctx context.Context, id uuid.UUID) (*entity.OutboundEmail, error)
	ListFor(ctx context.Context, address string) ([]*entity.OutboundEmail, error)

	// PurgeDelivered drops delivered emails finished before cutoff.
	PurgeDelivered(ctx context.Context, cutoff time.Time) (int64, error)
}
