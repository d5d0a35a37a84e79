package gift

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/testutil"
)

var (
	eventDate = time.Date(2030, 12, 24, 0, 0, 0, 0, time.UTC)
	claimTime = time.Date(2030, 12, 20, 18, 30, 0, 0, time.UTC)
)

type claimFixture struct {
	store *testutil.Store
	alice *entity.User
	bob   *entity.User
	carol *entity.User
	group *entity.Group
	gift  *entity.Gift
	buy   *MarkAsBoughtUseCase
	unbuy *UnmarkAsBoughtUseCase
}

func newClaimFixture(t *testing.T) *claimFixture {
	s := testutil.NewStore(t)
	f := &claimFixture{
		store: s,
		alice: s.User(t, "Alice"),
		bob:   s.User(t, "Bob"),
		carol: s.User(t, "Carol"),
	}
	f.group = s.Group(t, f.alice, entity.GameModeAnonymousWishlist, eventDate)
	s.Join(t, f.group, f.bob)
	s.Join(t, f.group, f.carol)
	f.gift = s.Gift(t, f.group, f.alice, "Bufanda")
	f.buy = NewMarkAsBoughtUseCase(s.Gifts, s.Groups, testutil.Clock{T: claimTime})
	f.unbuy = NewUnmarkAsBoughtUseCase(s.Gifts, s.Groups)
	return f
}

func TestMarkAsBought_ClaimsGift(t *testing.T) {
	f := newClaimFixture(t)

	out, err := f.buy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID})

	require.NoError(t, err)
	require.NotNil(t, out.Gift.ClaimantID)
	assert.Equal(t, f.bob.ID, *out.Gift.ClaimantID)
	require.NotNil(t, out.Gift.ClaimedAt)
	assert.True(t, claimTime.Equal(*out.Gift.ClaimedAt))
	assert.Equal(t, entity.ClaimStatusClaimedByYou, out.Gift.ClaimStatusFor(f.bob.ID))
	assert.Equal(t, entity.ClaimStatusClaimedByOther, out.Gift.ClaimStatusFor(f.carol.ID))
}

func TestMarkAsBought_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, f *claimFixture) ClaimInput
		wantKind domainerror.Kind
		wantErr  error
	}{
		{
			name: "requester claims own gift",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				return ClaimInput{GiftID: f.gift.ID, UserID: f.alice.ID}
			},
			wantKind: domainerror.KindAuthorization,
			wantErr:  domainerror.ErrSelfClaim,
		},
		{
			name: "already claimed by someone else",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				_, err := f.buy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID})
				require.NoError(t, err)
				return ClaimInput{GiftID: f.gift.ID, UserID: f.carol.ID}
			},
			wantKind: domainerror.KindConflict,
			wantErr:  domainerror.ErrGiftAlreadyClaimed,
		},
		{
			name: "claiming twice",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				_, err := f.buy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID})
				require.NoError(t, err)
				return ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID}
			},
			wantKind: domainerror.KindConflict,
			wantErr:  domainerror.ErrGiftAlreadyClaimed,
		},
		{
			name: "not a member",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				return ClaimInput{GiftID: f.gift.ID, UserID: f.store.User(t, "Eve").ID}
			},
			wantKind: domainerror.KindAuthorization,
			wantErr:  domainerror.ErrNotGroupMember,
		},
		{
			name: "unknown gift",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				return ClaimInput{GiftID: uuid.New(), UserID: f.bob.ID}
			},
			wantKind: domainerror.KindNotFound,
			wantErr:  domainerror.ErrGiftNotFound,
		},
		{
			name: "gift removed by requester",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				require.NoError(t, f.store.Gifts.SoftDelete(context.Background(), f.gift.ID))
				return ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID}
			},
			wantKind: domainerror.KindNotFound,
			wantErr:  domainerror.ErrGiftNotFound,
		},
		{
			name: "archived group",
			prepare: func(t *testing.T, f *claimFixture) ClaimInput {
				f.group.Archived = true
				require.NoError(t, f.store.Groups.UpdateGroup(context.Background(), f.group))
				return ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID}
			},
			wantKind: domainerror.KindAuthorization,
			wantErr:  domainerror.ErrGroupArchived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClaimFixture(t)
			input := tt.prepare(t, f)

			_, err := f.buy.Execute(context.Background(), input)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, domainerror.KindOf(err))
		})
	}
}

func TestMarkAsBought_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newClaimFixture(t)
	claimants := []*entity.User{f.bob, f.carol}
	for i := 0; i < 6; i++ {
		u := f.store.User(t, "Guest")
		f.store.Join(t, f.group, u)
		claimants = append(claimants, u)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []uuid.UUID
	)
	start := make(chan struct{})
	for _, u := range claimants {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := f.buy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: userID})
			if err != nil {
				assert.True(t, domainerror.IsKind(err, domainerror.KindConflict), "unexpected error: %v", err)
				return
			}
			mu.Lock()
			winners = append(winners, userID)
			mu.Unlock()
		}(u.ID)
	}
	close(start)
	wg.Wait()

	require.Len(t, winners, 1)
	stored, err := f.store.Gifts.FindByID(context.Background(), f.gift.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ClaimantID)
	assert.Equal(t, winners[0], *stored.ClaimantID)
}

func TestUnmarkAsBought(t *testing.T) {
	f := newClaimFixture(t)
	_, err := f.buy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID})
	require.NoError(t, err)

	_, err = f.unbuy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.carol.ID})
	assert.ErrorIs(t, err, domainerror.ErrNotGiftClaimant)
	assert.True(t, domainerror.IsKind(err, domainerror.KindAuthorization))

	out, err := f.unbuy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID})
	require.NoError(t, err)
	assert.Nil(t, out.Gift.ClaimantID)
	assert.Nil(t, out.Gift.ClaimedAt)

	_, err = f.unbuy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.bob.ID})
	assert.ErrorIs(t, err, domainerror.ErrNotGiftClaimant)

	out2, err := f.buy.Execute(context.Background(), ClaimInput{GiftID: f.gift.ID, UserID: f.carol.ID})
	require.NoError(t, err)
	assert.Equal(t, f.carol.ID, *out2.Gift.ClaimantID)
}
