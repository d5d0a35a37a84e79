// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giftcircle/backend/internal/application/adapter"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

type txKey struct{}

// dbFromContext returns the transaction stored in ctx, or db.
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// txManager implements the adapter.TxManager interface.
type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager instance.
func NewTxManager(db *gorm.DB) adapter.TxManager {
	return &txManager{db: db}
}

// WithTransaction runs fn in a transaction. Nested calls join the outer one.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// WithGroupLock runs fn in a transaction after taking SELECT ... FOR UPDATE on
// the group row. A missing group yields a not-found GroupError.
func (m *txManager) WithGroupLock(ctx context.Context, groupID uuid.UUID, fn func(ctx context.Context) error) error {
	return dbFromContext(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		var group model.GroupModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", groupID).
			First(&group).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.NewGroupNotFoundError()
			}
			return err
		}
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
