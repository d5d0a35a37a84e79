package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// PairingModel represents the secret_santa_pairings table in the database.
type PairingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pairings_group_giver"`
	GiverID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pairings_group_giver"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the PairingModel.
func (PairingModel) TableName() string {
	return "secret_santa_pairings"
}

// ToEntity converts a PairingModel to a domain Pairing entity.
func (m *PairingModel) ToEntity() *entity.Pairing {
	return &entity.Pairing{
		ID:         m.ID,
		GroupID:    m.GroupID,
		GiverID:    m.GiverID,
		ReceiverID: m.ReceiverID,
		CreatedAt:  m.CreatedAt,
	}
}

// PairingFromEntity creates a PairingModel from a domain Pairing entity.
func PairingFromEntity(p *entity.Pairing) *PairingModel {
	return &PairingModel{
		ID:         p.ID,
		GroupID:    p.GroupID,
		GiverID:    p.GiverID,
		ReceiverID: p.ReceiverID,
		CreatedAt:  p.CreatedAt,
	}
}
