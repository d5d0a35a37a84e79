package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pairing is one giver -> receiver edge of a Secret Santa draw.
type Pairing struct {
	ID         uuid.UUID
	GroupID    uuid.UUID
	GiverID    uuid.UUID
	ReceiverID uuid.UUID
	CreatedAt  time.Time
}

// NewPairing creates a new Pairing entity.
func NewPairing(groupID, giverID, receiverID uuid.UUID) *Pairing {
	return &Pairing{
		ID:         uuid.New(),
		GroupID:    groupID,
		GiverID:    giverID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now().UTC(),
	}
}

// Assignment is the result of looking up a giver's receiver.
type Assignment struct {
	HasPairing   bool
	ReceiverID   uuid.UUID
	ReceiverName string
}
