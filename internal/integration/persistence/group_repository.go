package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
)

// memberColumns selects a membership together with its user's display fields.
const memberColumns = "group_members.*, users.name AS user_name, users.email AS user_email"

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository instance.
// Group, membership and invite lookups return nil, nil when nothing matches.
func NewGroupRepository(db *gorm.DB) adapter.GroupRepository {
	return &groupRepository{db: db}
}

// firstOrNil loads the first row of q into M and converts it, mapping a
// missing row to nil.
func firstOrNil[M any, E any](q *gorm.DB, convert func(*M) *E) (*E, error) {
	var m M
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return convert(&m), nil
}

func (r *groupRepository) exists(ctx context.Context, m any, query string, args ...any) (bool, error) {
	var n int64
	if err := dbFromContext(ctx, r.db).Model(m).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *groupRepository) members(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).
		Model(&model.GroupMemberModel{}).
		Select(memberColumns).
		Joins("JOIN users ON users.id = group_members.user_id")
}

func (r *groupRepository) CreateGroup(ctx context.Context, group *entity.Group) error {
	return dbFromContext(ctx, r.db).Create(model.GroupFromEntity(group)).Error
}

func (r *groupRepository) FindGroupByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	return firstOrNil(dbFromContext(ctx, r.db).Where("id = ?", id), (*model.GroupModel).ToEntity)
}

func (r *groupRepository) FindGroupByJoinCode(ctx context.Context, code string) (*entity.Group, error) {
	return firstOrNil(dbFromContext(ctx, r.db).Where("join_code = ?", code), (*model.GroupModel).ToEntity)
}

func (r *groupRepository) ExistsByJoinCode(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, &model.GroupModel{}, "join_code = ?", code)
}

// FindGroupsByUserID lists the viewer's groups with creator name and head
// count. Ordering is left to the caller.
func (r *groupRepository) FindGroupsByUserID(ctx context.Context, userID uuid.UUID, archived bool) ([]*entity.GroupListItem, error) {
	var rows []struct {
		model.GroupModel
		CreatorName string
		MemberCount int
	}

	err := dbFromContext(ctx, r.db).
		Model(&model.GroupModel{}).
		Select(`groups.*, COALESCE(creator.name, '') AS creator_name,
			(SELECT COUNT(*) FROM group_members all_members WHERE all_members.group_id = groups.id) AS member_count`).
		Joins("JOIN group_members viewer ON viewer.group_id = groups.id AND viewer.user_id = ?", userID).
		Joins("LEFT JOIN users creator ON creator.id = groups.creator_id").
		Where("groups.archived = ?", archived).
		Order("groups.event_date, groups.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entity.GroupListItem, 0, len(rows))
	for i := range rows {
		items = append(items, &entity.GroupListItem{
			Group:       rows[i].GroupModel.ToEntity(),
			CreatorName: rows[i].CreatorName,
			MemberCount: rows[i].MemberCount,
		})
	}
	return items, nil
}

// UpdateGroup writes the editable columns only. pairings_done is owned by
// MarkPairingsDone.
func (r *groupRepository) UpdateGroup(ctx context.Context, group *entity.Group) error {
	return dbFromContext(ctx, r.db).
		Model(&model.GroupModel{ID: group.ID}).
		Select("name", "celebration_type", "event_date", "archived", "updated_at").
		Updates(model.GroupFromEntity(group)).Error
}

func (r *groupRepository) MarkPairingsDone(ctx context.Context, groupID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Model(&model.GroupModel{ID: groupID}).
		Updates(map[string]any{"pairings_done": true, "updated_at": time.Now().UTC()}).Error
}

func (r *groupRepository) CreateMember(ctx context.Context, member *entity.Membership) error {
	return dbFromContext(ctx, r.db).Create(model.GroupMemberFromEntity(member)).Error
}

func (r *groupRepository) FindMemberByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*entity.Membership, error) {
	q := r.members(ctx).Where("group_members.group_id = ? AND group_members.user_id = ?", groupID, userID)
	return firstOrNil(q, (*model.GroupMemberModel).ToEntity)
}

// FindMembersByGroupID returns members in join order, ties broken by id.
func (r *groupRepository) FindMembersByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Membership, error) {
	var rows []model.GroupMemberModel
	err := r.members(ctx).
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at, group_members.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]*entity.Membership, len(rows))
	for i := range rows {
		members[i] = rows[i].ToEntity()
	}
	return members, nil
}

func (r *groupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	var n int64
	err := dbFromContext(ctx, r.db).Model(&model.GroupMemberModel{}).Where("group_id = ?", groupID).Count(&n).Error
	return int(n), err
}

func (r *groupRepository) IsUserMemberOfGroup(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return r.exists(ctx, &model.GroupMemberModel{}, "group_id = ? AND user_id = ?", groupID, userID)
}

// MarkEventNotificationSent is a conditional update, so concurrent fetches of
// the same wishlist can never both observe a change.
func (r *groupRepository) MarkEventNotificationSent(ctx context.Context, membershipID uuid.UUID, day, eventDay time.Time) (bool, error) {
	result := dbFromContext(ctx, r.db).
		Model(&model.GroupMemberModel{}).
		Where("id = ? AND (last_event_notification_sent IS NULL OR last_event_notification_sent < ?)", membershipID, eventDay).
		Update("last_event_notification_sent", day)
	return result.RowsAffected == 1, result.Error
}

func (r *groupRepository) CreateInvite(ctx context.Context, invite *entity.GroupInvite) error {
	return dbFromContext(ctx, r.db).Create(model.GroupInviteFromEntity(invite)).Error
}

func (r *groupRepository) FindInviteByToken(ctx context.Context, token string) (*entity.GroupInvite, error) {
	return firstOrNil(dbFromContext(ctx, r.db).Where("token = ?", token), (*model.GroupInviteModel).ToEntity)
}

func (r *groupRepository) FindPendingInviteByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*entity.GroupInvite, error) {
	q := dbFromContext(ctx, r.db).Where("group_id = ? AND email = ? AND status = ?", groupID, email, entity.InviteStatusPending)
	return firstOrNil(q, (*model.GroupInviteModel).ToEntity)
}

// TransitionInvite moves an invite from one status to another only if it is
// still in the expected status. It reports whether this call made the change.
func (r *groupRepository) TransitionInvite(ctx context.Context, inviteID uuid.UUID, from, to entity.InviteStatus) (bool, error) {
	result := dbFromContext(ctx, r.db).
		Model(&model.GroupInviteModel{}).
		Where("id = ? AND status = ?", inviteID, from).
		Update("status", to)
	return result.RowsAffected == 1, result.Error
}
