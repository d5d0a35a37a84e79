package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// GroupModel represents the groups table in the database.
type GroupModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(100);not null"`
	CelebrationType string    `gorm:"type:varchar(20);not null"`
	GameMode        string    `gorm:"type:varchar(30);not null"`
	EventDate       time.Time `gorm:"not null"`
	JoinCode        string    `gorm:"type:varchar(16);not null;uniqueIndex"`
	CreatorID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Archived        bool      `gorm:"not null;default:false"`
	PairingsDone    bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GroupModel.
func (GroupModel) TableName() string {
	return "groups"
}

// ToEntity converts a GroupModel to a domain Group entity.
func (m *GroupModel) ToEntity() *entity.Group {
	return &entity.Group{
		ID:              m.ID,
		Name:            m.Name,
		CelebrationType: entity.CelebrationType(m.CelebrationType),
		GameMode:        entity.GameMode(m.GameMode),
		EventDate:       m.EventDate.UTC(),
		JoinCode:        m.JoinCode,
		CreatorID:       m.CreatorID,
		Archived:        m.Archived,
		PairingsDone:    m.PairingsDone,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// GroupFromEntity creates a GroupModel from a domain Group entity.
func GroupFromEntity(group *entity.Group) *GroupModel {
	return &GroupModel{
		ID:              group.ID,
		Name:            group.Name,
		CelebrationType: string(group.CelebrationType),
		GameMode:        string(group.GameMode),
		EventDate:       group.EventDate.UTC(),
		JoinCode:        group.JoinCode,
		CreatorID:       group.CreatorID,
		Archived:        group.Archived,
		PairingsDone:    group.PairingsDone,
		CreatedAt:       group.CreatedAt,
		UpdatedAt:       group.UpdatedAt,
	}
}

// GroupMemberModel represents the group_members table in the database.
type GroupMemberModel struct {
	ID                        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	GroupID                   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user"`
	UserID                    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_members_group_user;index"`
	JoinedAt                  time.Time  `gorm:"not null"`
	LastEventNotificationSent *time.Time `gorm:"type:date"`
	// Read-only, filled by queries that join users.
	UserName  string `gorm:"->;-:migration"`
	UserEmail string `gorm:"->;-:migration"`
}

// TableName returns the table name for the GroupMemberModel.
func (GroupMemberModel) TableName() string {
	return "group_members"
}

// ToEntity converts a GroupMemberModel to a domain Membership entity.
func (m *GroupMemberModel) ToEntity() *entity.Membership {
	return &entity.Membership{
		ID:                        m.ID,
		GroupID:                   m.GroupID,
		UserID:                    m.UserID,
		JoinedAt:                  m.JoinedAt,
		LastEventNotificationSent: m.LastEventNotificationSent,
		UserName:                  m.UserName,
		UserEmail:                 m.UserEmail,
	}
}

// GroupMemberFromEntity creates a GroupMemberModel from a domain Membership entity.
func GroupMemberFromEntity(member *entity.Membership) *GroupMemberModel {
	return &GroupMemberModel{
		ID:                        member.ID,
		GroupID:                   member.GroupID,
		UserID:                    member.UserID,
		JoinedAt:                  member.JoinedAt,
		LastEventNotificationSent: member.LastEventNotificationSent,
	}
}

// GroupInviteModel represents the group_invites table in the database.
type GroupInviteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GroupInviteModel.
func (GroupInviteModel) TableName() string {
	return "group_invites"
}

// ToEntity converts a GroupInviteModel to a domain GroupInvite entity.
func (m *GroupInviteModel) ToEntity() *entity.GroupInvite {
	return &entity.GroupInvite{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Email:     m.Email,
		Token:     m.Token,
		InvitedBy: m.InvitedBy,
		Status:    entity.InviteStatus(m.Status),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// GroupInviteFromEntity creates a GroupInviteModel from a domain GroupInvite entity.
func GroupInviteFromEntity(invite *entity.GroupInvite) *GroupInviteModel {
	return &GroupInviteModel{
		ID:        invite.ID,
		GroupID:   invite.GroupID,
		Email:     invite.Email,
		Token:     invite.Token,
		InvitedBy: invite.InvitedBy,
		Status:    string(invite.Status),
		ExpiresAt: invite.ExpiresAt,
		CreatedAt: invite.CreatedAt,
	}
}
