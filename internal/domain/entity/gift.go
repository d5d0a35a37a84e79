package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus describes a gift's claim state from a viewer's point of view.
type ClaimStatus string

const (
	ClaimStatusUnclaimed      ClaimStatus = "unclaimed"
	ClaimStatusClaimedByYou   ClaimStatus = "claimed_by_you"
	ClaimStatusClaimedByOther ClaimStatus = "claimed_by_other"
)

// Gift is a wishlist item owned by one member of a group.
type Gift struct {
	ID                 uuid.UUID
	Name               string
	Description        *string
	URL                *string
	ImageURL           *string
	RequesterID        uuid.UUID
	GroupID            uuid.UUID
	ClaimantID         *uuid.UUID
	ClaimedAt          *time.Time
	DeletedByRequester bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewGift creates a new unclaimed Gift entity.
func NewGift(name string, description, url *string, requesterID, groupID uuid.UUID) *Gift {
	now := time.Now().UTC()
	return &Gift{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		URL:         url,
		RequesterID: requesterID,
		GroupID:     groupID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsClaimed reports whether someone has claimed the gift.
func (g *Gift) IsClaimed() bool {
	return g.ClaimantID != nil
}

// IsClaimedBy reports whether userID is the current claimant.
func (g *Gift) IsClaimedBy(userID uuid.UUID) bool {
	return g.ClaimantID != nil && *g.ClaimantID == userID
}

// ClaimStatusFor returns the claim status as seen by viewerID.
func (g *Gift) ClaimStatusFor(viewerID uuid.UUID) ClaimStatus {
	switch {
	case g.ClaimantID == nil:
		return ClaimStatusUnclaimed
	case *g.ClaimantID == viewerID:
		return ClaimStatusClaimedByYou
	default:
		return ClaimStatusClaimedByOther
	}
}
