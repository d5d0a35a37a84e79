package group

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/testutil"
)

var eventDate = time.Date(2030, 12, 24, 0, 0, 0, 0, time.UTC)

func createGroup(t *testing.T, s *testutil.Store, creator *entity.User, mode entity.GameMode) *entity.Group {
	out, err := NewCreateGroupUseCase(s.Groups, s.Tx).Execute(context.Background(), CreateGroupInput{
		Name:            "Familia",
		GameMode:        mode,
		CelebrationType: entity.CelebrationChristmas,
		EventDate:       eventDate,
		CreatorID:       creator.ID,
	})
	require.NoError(t, err)
	return out.Group
}

func TestCreateGroup_EnrollsCreator(t *testing.T) {
	s := testutil.NewStore(t)
	alice := s.User(t, "Alice")

	g := createGroup(t, s, alice, entity.GameModeSecretSanta)

	assert.Len(t, g.JoinCode, JoinCodeLength)
	assert.False(t, g.PairingsDone)
	members, err := s.Groups.FindMembersByGroupID(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].UserID)
	assert.Equal(t, "Alice", members[0].UserName)
}

func TestCreateGroup_Validation(t *testing.T) {
	s := testutil.NewStore(t)
	uc := NewCreateGroupUseCase(s.Groups, s.Tx)
	valid := CreateGroupInput{
		Name:            "Familia",
		GameMode:        entity.GameModeAnonymousWishlist,
		CelebrationType: entity.CelebrationBirthday,
		EventDate:       eventDate,
		CreatorID:       uuid.New(),
	}

	tests := []struct {
		name    string
		mutate  func(in *CreateGroupInput)
		wantErr error
	}{
		{"blank name", func(in *CreateGroupInput) { in.Name = "   " }, domainerror.ErrGroupNameRequired},
		{"long name", func(in *CreateGroupInput) { in.Name = strings.Repeat("a", MaxGroupNameLength+1) }, domainerror.ErrGroupNameTooLong},
		{"unknown celebration", func(in *CreateGroupInput) { in.CelebrationType = "halloween" }, domainerror.ErrInvalidCelebrationType},
		{"missing date", func(in *CreateGroupInput) { in.EventDate = time.Time{} }, domainerror.ErrEventDateRequired},
		{"unknown game mode", func(in *CreateGroupInput) { in.GameMode = "lottery" }, domainerror.ErrInvalidGameMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			_, err := uc.Execute(context.Background(), input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
		})
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateJoinCode()
		require.NoError(t, err)
		require.Len(t, code, JoinCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(joinCodeAlphabet, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 95)
	assert.Equal(t, "AB12CD34", NormalizeJoinCode("  ab12cd34 "))
}

func TestJoinGroup(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	uc := NewJoinGroupUseCase(s.Groups, s.Tx)

	out, err := uc.Execute(context.Background(), JoinGroupInput{Code: strings.ToLower(g.JoinCode), UserID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, g.ID, out.Group.ID)
	assert.Equal(t, bob.ID, out.Member.UserID)

	_, err = uc.Execute(context.Background(), JoinGroupInput{Code: g.JoinCode, UserID: bob.ID})
	assert.ErrorIs(t, err, domainerror.ErrUserAlreadyMember)
	assert.True(t, domainerror.IsKind(err, domainerror.KindConflict))

	_, err = uc.Execute(context.Background(), JoinGroupInput{Code: "NOPE0000", UserID: bob.ID})
	assert.True(t, domainerror.IsKind(err, domainerror.KindNotFound))
}

func TestJoinGroup_ClosedAfterDraw(t *testing.T) {
	s := testutil.NewStore(t)
	alice, carol := s.User(t, "Alice"), s.User(t, "Carol")
	g := createGroup(t, s, alice, entity.GameModeSecretSanta)
	require.NoError(t, s.Groups.MarkPairingsDone(context.Background(), g.ID))

	_, err := NewJoinGroupUseCase(s.Groups, s.Tx).Execute(context.Background(), JoinGroupInput{Code: g.JoinCode, UserID: carol.ID})

	assert.ErrorIs(t, err, domainerror.ErrJoinClosed)
	assert.True(t, domainerror.IsKind(err, domainerror.KindAuthorization))
	count, err := s.Groups.CountMembers(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestJoinGroup_ConcurrentJoinsOfSameUser(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	uc := NewJoinGroupUseCase(s.Groups, s.Tx)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Execute(context.Background(), JoinGroupInput{Code: g.JoinCode, UserID: bob.ID})
		}()
	}
	wg.Wait()

	count, err := s.Groups.CountMembers(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestArchiveGroup(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	s.Join(t, g, bob)
	uc := NewArchiveGroupUseCase(s.Groups, s.Tx)

	_, err := uc.Execute(context.Background(), ArchiveGroupInput{GroupID: g.ID, RequesterID: bob.ID})
	assert.ErrorIs(t, err, domainerror.ErrNotGroupCreator)

	out, err := uc.Execute(context.Background(), ArchiveGroupInput{GroupID: g.ID, RequesterID: alice.ID})
	require.NoError(t, err)
	assert.True(t, out.Group.Archived)

	_, err = uc.Execute(context.Background(), ArchiveGroupInput{GroupID: g.ID, RequesterID: alice.ID})
	assert.ErrorIs(t, err, domainerror.ErrGroupAlreadyArchived)

	carol := s.User(t, "Carol")
	_, err = NewJoinGroupUseCase(s.Groups, s.Tx).Execute(context.Background(), JoinGroupInput{Code: g.JoinCode, UserID: carol.ID})
	assert.ErrorIs(t, err, domainerror.ErrGroupArchived)

	list := NewListGroupsUseCase(s.Groups, testutil.Clock{T: eventDate.AddDate(0, -1, 0)})
	active, err := list.Execute(context.Background(), ListGroupsInput{UserID: alice.ID})
	require.NoError(t, err)
	assert.Empty(t, active.Groups)
	archived, err := list.Execute(context.Background(), ListGroupsInput{UserID: alice.ID, Archived: true})
	require.NoError(t, err)
	require.Len(t, archived.Groups, 1)
	assert.Equal(t, 2, archived.Groups[0].MemberCount)
}

func TestUpdateGroup(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := createGroup(t, s, alice, entity.GameModeSecretSanta)
	s.Join(t, g, bob)
	uc := NewUpdateGroupUseCase(s.Groups)
	input := UpdateGroupInput{
		GroupID:         g.ID,
		Name:            "Primos",
		CelebrationType: entity.CelebrationThreeKings,
		EventDate:       eventDate.AddDate(0, 0, 13),
	}

	input.RequesterID = bob.ID
	_, err := uc.Execute(context.Background(), input)
	assert.ErrorIs(t, err, domainerror.ErrNotGroupCreator)

	input.RequesterID = alice.ID
	out, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Primos", out.Group.Name)
	assert.Equal(t, entity.GameModeSecretSanta, out.Group.GameMode)

	stored, err := s.Groups.FindGroupByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CelebrationThreeKings, stored.CelebrationType)
	assert.True(t, input.EventDate.Equal(stored.EventDate))
}

type recordingEmails struct {
	mu          sync.Mutex
	invitations []adapter.QueueGroupInvitationInput
}

func (r *recordingEmails) QueueGroupInvitationEmail(_ context.Context, input adapter.QueueGroupInvitationInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invitations = append(r.invitations, input)
	return nil
}

func (r *recordingEmails) QueueAssignmentEmail(context.Context, adapter.QueueAssignmentInput) error {
	return nil
}

func (r *recordingEmails) QueueGiftChangeEmail(context.Context, adapter.QueueGiftChangeInput) error {
	return nil
}

func (r *recordingEmails) QueueEventDayEmail(context.Context, adapter.QueueEventDayInput) error {
	return nil
}

func TestInviteMembers(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	s.Join(t, g, bob)
	emails := &recordingEmails{}
	uc := NewInviteMembersUseCase(s.Groups, s.Users, emails, testutil.Clock{T: time.Now().UTC()}, "https://app.example.com/")

	out, err := uc.Execute(context.Background(), InviteMembersInput{
		GroupID:   g.ID,
		InviterID: alice.ID,
		Emails:    []string{"Carol@Example.com", "carol@example.com", bob.Email, alice.Email, "nope"},
	})
	require.NoError(t, err)

	assert.Equal(t, []InviteResult{
		{Email: "carol@example.com", Status: InviteStatusInvited},
		{Email: bob.Email, Status: InviteStatusAlreadyMember},
		{Email: alice.Email, Status: InviteStatusInvalid},
		{Email: "nope", Status: InviteStatusInvalid},
	}, out.Results)

	require.Len(t, emails.invitations, 1)
	invitation := emails.invitations[0]
	assert.Equal(t, "carol@example.com", invitation.InviteEmail)
	assert.Equal(t, "Alice", invitation.InviterName)
	assert.True(t, strings.HasPrefix(invitation.InviteURL, "https://app.example.com/invite/"))

	again, err := uc.Execute(context.Background(), InviteMembersInput{GroupID: g.ID, InviterID: alice.ID, Emails: []string{"carol@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, InviteStatusAlreadyInvited, again.Results[0].Status)

	_, err = uc.Execute(context.Background(), InviteMembersInput{GroupID: g.ID, InviterID: alice.ID})
	assert.ErrorIs(t, err, domainerror.ErrNoInviteEmails)
}

func TestAcceptInvite(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	clock := testutil.Clock{T: time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)}
	alice, carol := s.User(t, "Alice"), s.User(t, "Carol")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	invite := entity.NewGroupInvite(g.ID, carol.Email, "token-valid", alice.ID, clock.T.Add(time.Hour))
	require.NoError(t, s.Groups.CreateInvite(ctx, invite))

	preview, err := NewPreviewInviteUseCase(s.Groups, s.Users, clock).Execute(ctx, PreviewInviteInput{Token: "token-valid"})
	require.NoError(t, err)
	assert.Equal(t, "Familia", preview.GroupName)
	assert.Equal(t, "Alice", preview.InviterName)

	uc := NewAcceptInviteUseCase(s.Groups, s.Tx, clock)
	out, err := uc.Execute(ctx, AcceptInviteInput{Token: "token-valid", UserID: carol.ID})
	require.NoError(t, err)
	assert.Equal(t, g.ID, out.Group.ID)
	assert.Equal(t, carol.ID, out.Membership.UserID)

	isMember, err := s.Groups.IsUserMemberOfGroup(ctx, g.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	_, err = uc.Execute(ctx, AcceptInviteInput{Token: "token-valid", UserID: carol.ID})
	assert.True(t, domainerror.IsKind(err, domainerror.KindNotFound))
}

func TestAcceptInvite_FailedJoinKeepsInvitePending(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	clock := testutil.Clock{T: time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)}
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	s.Join(t, g, bob)
	require.NoError(t, s.Groups.CreateInvite(ctx, entity.NewGroupInvite(g.ID, bob.Email, "token-dup", alice.ID, clock.T.Add(time.Hour))))

	_, err := NewAcceptInviteUseCase(s.Groups, s.Tx, clock).Execute(ctx, AcceptInviteInput{Token: "token-dup", UserID: bob.ID})

	assert.ErrorIs(t, err, domainerror.ErrUserAlreadyMember)
	stored, err := s.Groups.FindInviteByToken(ctx, "token-dup")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusPending, stored.Status)
}

func TestAcceptInvite_Expired(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	clock := testutil.Clock{T: time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)}
	alice, carol := s.User(t, "Alice"), s.User(t, "Carol")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)
	invite := entity.NewGroupInvite(g.ID, carol.Email, "token-old", alice.ID, clock.T.Add(-time.Hour))
	require.NoError(t, s.Groups.CreateInvite(ctx, invite))

	_, err := NewAcceptInviteUseCase(s.Groups, s.Tx, clock).Execute(ctx, AcceptInviteInput{Token: "token-old", UserID: carol.ID})

	assert.ErrorIs(t, err, domainerror.ErrInviteExpired)
	stored, err := s.Groups.FindInviteByToken(ctx, "token-old")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusExpired, stored.Status)

	_, err = NewPreviewInviteUseCase(s.Groups, s.Users, clock).Execute(ctx, PreviewInviteInput{Token: "token-old"})
	assert.ErrorIs(t, err, domainerror.ErrInviteExpired)
}

func TestListMembers_RequiresMembership(t *testing.T) {
	s := testutil.NewStore(t)
	alice, eve := s.User(t, "Alice"), s.User(t, "Eve")
	g := createGroup(t, s, alice, entity.GameModeAnonymousWishlist)

	_, err := NewListMembersUseCase(s.Groups).Execute(context.Background(), ListMembersInput{GroupID: g.ID, ViewerID: eve.ID})
	assert.ErrorIs(t, err, domainerror.ErrNotGroupMember)

	_, err = NewListMembersUseCase(s.Groups).Execute(context.Background(), ListMembersInput{GroupID: uuid.New(), ViewerID: alice.ID})
	assert.ErrorIs(t, err, domainerror.ErrGroupNotFound)
}

func TestListGroups_UpcomingFirst(t *testing.T) {
	s := testutil.NewStore(t)
	alice := s.User(t, "Alice")
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	past := s.Group(t, alice, entity.GameModeAnonymousWishlist, now.AddDate(0, -2, 0))
	recent := s.Group(t, alice, entity.GameModeAnonymousWishlist, now.AddDate(0, 0, -3))
	later := s.Group(t, alice, entity.GameModeSecretSanta, now.AddDate(0, 6, 0))
	soon := s.Group(t, alice, entity.GameModeAnonymousWishlist, now.AddDate(0, 0, 10))

	out, err := NewListGroupsUseCase(s.Groups, testutil.Clock{T: now}).Execute(context.Background(), ListGroupsInput{UserID: alice.ID})
	require.NoError(t, err)

	var order []uuid.UUID
	var started []bool
	for _, item := range out.Groups {
		order = append(order, item.Group.ID)
		started = append(started, item.Started)
	}
	assert.Equal(t, []uuid.UUID{soon.ID, later.ID, recent.ID, past.ID}, order)
	assert.Equal(t, []bool{false, false, true, true}, started)
}
