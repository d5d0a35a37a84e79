package adapter

import (
	"context"

	"github.com/google/uuid"
)

// TxManager runs work inside a database transaction. Repositories pick the
// transaction up from the context passed to fn.
type TxManager interface {
	// WithTransaction runs fn in a transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// WithGroupLock runs fn in a transaction holding an exclusive row lock on
	// the group. Joins and pairing generation for one group are serialized by it.
	WithGroupLock(ctx context.Context, groupID uuid.UUID, fn func(ctx context.Context) error) error
}
