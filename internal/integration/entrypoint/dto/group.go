package dto

import (
	"time"

	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// CreateGroupRequest represents the request body for creating a group.
type CreateGroupRequest struct {
	Name            string    `json:"name" binding:"required"`
	GameMode        string    `json:"game_mode" binding:"required"`
	CelebrationType string    `json:"celebration_type" binding:"required"`
	EventDate       time.Time `json:"event_date" binding:"required"`
}

// UpdateGroupRequest represents the request body for updating a group.
type UpdateGroupRequest struct {
	Name            string    `json:"name" binding:"required"`
	CelebrationType string    `json:"celebration_type" binding:"required"`
	EventDate       time.Time `json:"event_date" binding:"required"`
}

// InviteMembersRequest represents the request body for inviting by email.
type InviteMembersRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	GameMode        string    `json:"game_mode"`
	CelebrationType string    `json:"celebration_type"`
	EventDate       time.Time `json:"event_date"`
	JoinCode        string    `json:"join_code"`
	CreatorID       string    `json:"creator_id"`
	Archived        bool      `json:"archived"`
	PairingsDone    bool      `json:"pairings_done"`
	CreatedAt       time.Time `json:"created_at"`
}

// GroupListItemResponse represents one row of the group list.
type GroupListItemResponse struct {
	GroupResponse
	CreatorName string `json:"creator_name"`
	MemberCount int    `json:"member_count"`
	Started     bool   `json:"started"`
}

// GroupListResponse wraps the group list.
type GroupListResponse struct {
	Groups []GroupListItemResponse `json:"groups"`
}

// GroupByCodeResponse is returned when looking a group up by join code.
type GroupByCodeResponse struct {
	Group       GroupResponse `json:"group"`
	IsMember    bool          `json:"is_member"`
	MemberCount int           `json:"member_count"`
	CreatorName string        `json:"creator_name"`
}

// MemberResponse represents a group member.
type MemberResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberListResponse wraps the member list.
type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
}

// InviteResultResponse reports what happened to one invited address.
type InviteResultResponse struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// InviteMembersResponse wraps the per-address results.
type InviteMembersResponse struct {
	Results []InviteResultResponse `json:"results"`
}

// InvitePreviewResponse describes an invitation before it is accepted.
type InvitePreviewResponse struct {
	GroupName       string    `json:"group_name"`
	GameMode        string    `json:"game_mode"`
	CelebrationType string    `json:"celebration_type"`
	EventDate       time.Time `json:"event_date"`
	InviterName     string    `json:"inviter_name"`
	Email           string    `json:"email"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// AcceptInviteResponse is returned after redeeming an invitation.
type AcceptInviteResponse struct {
	GroupID   string    `json:"group_id"`
	GroupName string    `json:"group_name"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ToGroupResponse converts a domain Group.
func ToGroupResponse(g *entity.Group) GroupResponse {
	return GroupResponse{
		ID:              g.ID.String(),
		Name:            g.Name,
		GameMode:        string(g.GameMode),
		CelebrationType: string(g.CelebrationType),
		EventDate:       g.EventDate,
		JoinCode:        g.JoinCode,
		CreatorID:       g.CreatorID.String(),
		Archived:        g.Archived,
		PairingsDone:    g.PairingsDone,
		CreatedAt:       g.CreatedAt,
	}
}

// ToGroupListResponse converts the list use case output.
func ToGroupListResponse(items []*entity.GroupListItem) GroupListResponse {
	groups := make([]GroupListItemResponse, len(items))
	for i, item := range items {
		groups[i] = GroupListItemResponse{
			GroupResponse: ToGroupResponse(item.Group),
			CreatorName:   item.CreatorName,
			MemberCount:   item.MemberCount,
			Started:       item.Started,
		}
	}
	return GroupListResponse{Groups: groups}
}

// ToMemberListResponse converts memberships.
func ToMemberListResponse(members []*entity.Membership) MemberListResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{
			UserID:   m.UserID.String(),
			Name:     m.UserName,
			Email:    m.UserEmail,
			JoinedAt: m.JoinedAt,
		}
	}
	return MemberListResponse{Members: out}
}

// ToInviteMembersResponse converts invitation results.
func ToInviteMembersResponse(results []group.InviteResult) InviteMembersResponse {
	out := make([]InviteResultResponse, len(results))
	for i, r := range results {
		out[i] = InviteResultResponse{Email: r.Email, Status: string(r.Status)}
	}
	return InviteMembersResponse{Results: out}
}
