package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// GroupRepository persists groups, their memberships and their email invites.
// Lookups return nil without error when nothing matches. Every method runs
// inside the transaction TxManager placed in ctx, if any.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *entity.Group) error

	FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)

	// FindGroupByJoinCode retrieves a group by its shareable join code.
	FindGroupByJoinCode(ctx context.Context, code string) (*entity.Group, error)

	// ExistsByJoinCode checks whether a join code is already taken.
	ExistsByJoinCode(ctx context.Context, code string) (bool, error)

	// FindGroupsByUserID retrieves the groups a user belongs to, filtered by archived state.
	FindGroupsByUserID(ctx context.Context, userID uuid.UUID, archived bool) ([]*entity.GroupListItem, error)

	// UpdateGroup saves name, celebration type, event date and archived state.
	UpdateGroup(ctx context.Context, group *entity.Group) error

	// MarkPairingsDone sets the pairings-completed flag.
	MarkPairingsDone(ctx context.Context, groupID uuid.UUID) error

	CreateMember(ctx context.Context, member *entity.Membership) error

	// FindMemberByGroupAndUser retrieves a member by group and user ID.
	FindMemberByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*entity.Membership, error)

	// FindMembersByGroupID retrieves all members of a group ordered by join time.
	FindMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Membership, error)

	// CountMembers counts the members of a group.
	CountMembers(ctx context.Context, groupID uuid.UUID) (int, error)

	// IsUserMemberOfGroup checks if a user is a member of a group.
	IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	// MarkEventNotificationSent sets the event-day marker to day when it is
	// unset or older than eventDay. It reports whether the row changed.
	MarkEventNotificationSent(ctx context.Context, membershipID uuid.UUID, day, eventDay time.Time) (bool, error)

	CreateInvite(ctx context.Context, invite *entity.GroupInvite) error

	// FindInviteByToken retrieves an invitation by its token.
	FindInviteByToken(ctx context.Context, token string) (*entity.GroupInvite, error)

	// FindPendingInviteByGroupAndEmail retrieves a pending invite by group and email.
	FindPendingInviteByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*entity.GroupInvite, error)

	// TransitionInvite changes an invite's status only when it currently holds
	// from, reporting whether the change happened.
	TransitionInvite(ctx context.Context, inviteID uuid.UUID, from, to entity.InviteStatus) (bool, error)
}
