// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GameMode represents how gifts are exchanged inside a group.
type GameMode string

const (
	GameModeAnonymousWishlist GameMode = "anonymous_wishlist"
	GameModeSecretSanta       GameMode = "secret_santa"
)

// IsValid reports whether the game mode is one of the supported values.
func (m GameMode) IsValid() bool {
	return m == GameModeAnonymousWishlist || m == GameModeSecretSanta
}

// CelebrationType represents the occasion a group is organised for.
type CelebrationType string

const (
	CelebrationChristmas  CelebrationType = "christmas"
	CelebrationThreeKings CelebrationType = "three_kings"
	CelebrationWedding    CelebrationType = "wedding"
	CelebrationBirthday   CelebrationType = "birthday"
	CelebrationOther      CelebrationType = "other"
)

// IsValid reports whether the celebration type is one of the supported values.
func (c CelebrationType) IsValid() bool {
	switch c {
	case CelebrationChristmas, CelebrationThreeKings, CelebrationWedding, CelebrationBirthday, CelebrationOther:
		return true
	}
	return false
}

// InviteStatus represents the status of a group invitation.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
)

// Group represents one gift-exchange event.
type Group struct {
	ID              uuid.UUID
	Name            string
	CelebrationType CelebrationType
	GameMode        GameMode
	EventDate       time.Time
	JoinCode        string
	CreatorID       uuid.UUID
	Archived        bool
	PairingsDone    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewGroup creates a new Group entity.
func NewGroup(name string, mode GameMode, celebration CelebrationType, eventDate time.Time, joinCode string, creatorID uuid.UUID) *Group {
	now := time.Now().UTC()

	return &Group{
		ID:              uuid.New(),
		Name:            name,
		CelebrationType: celebration,
		GameMode:        mode,
		EventDate:       eventDate,
		JoinCode:        joinCode,
		CreatorID:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsSecretSanta reports whether the group runs a Secret Santa draw.
func (g *Group) IsSecretSanta() bool {
	return g.GameMode == GameModeSecretSanta
}

// JoinClosed reports whether new memberships are no longer accepted
// because the Secret Santa draw has already happened.
func (g *Group) JoinClosed() bool {
	return g.IsSecretSanta() && g.PairingsDone
}

// HasStarted reports whether the event start date has been reached at now.
func (g *Group) HasStarted(now time.Time) bool {
	return !now.Before(g.EventDate)
}

// Membership is the join relation between a user and a group.
type Membership struct {
	ID                        uuid.UUID
	GroupID                   uuid.UUID
	UserID                    uuid.UUID
	JoinedAt                  time.Time
	LastEventNotificationSent *time.Time
	// User information (populated when needed)
	UserName  string
	UserEmail string
}

// NewMembership creates a new Membership entity.
func NewMembership(groupID, userID uuid.UUID) *Membership {
	return &Membership{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
}

// GroupInvite represents an emailed invitation to join a group.
type GroupInvite struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	Email     string
	Token     string
	InvitedBy uuid.UUID
	Status    InviteStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewGroupInvite creates a new GroupInvite entity.
func NewGroupInvite(groupID uuid.UUID, email, token string, invitedBy uuid.UUID, expiresAt time.Time) *GroupInvite {
	return &GroupInvite{
		ID:        uuid.New(),
		GroupID:   groupID,
		Email:     email,
		Token:     token,
		InvitedBy: invitedBy,
		Status:    InviteStatusPending,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
}

// ExpiredAt reports whether the invitation's deadline lies before now.
func (i *GroupInvite) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// GroupListItem represents a group in a list view.
type GroupListItem struct {
	Group       *Group
	CreatorName string
	MemberCount int
	// Started is set by the use case from the clock.
	Started bool
}
