package secretsanta

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/adapters"
	"github.com/giftcircle/backend/internal/integration/persistence/model"
	"github.com/giftcircle/backend/internal/testutil"
)

var eventDate = time.Date(2030, 12, 24, 0, 0, 0, 0, time.UTC)

func newGenerate(s *testutil.Store, n adapter.Notifier) *GeneratePairingsUseCase {
	return NewGeneratePairingsUseCase(s.Tx, s.Groups, s.Pairings, n, adapters.NewSeededRandomSource(5, 6))
}

func TestGeneratePairings_DrawsEveryMember(t *testing.T) {
	s := testutil.NewStore(t)
	notifier := &testutil.Notifier{}
	alice, bob, carol := s.User(t, "Alice"), s.User(t, "Bob"), s.User(t, "Carol")
	g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
	s.Join(t, g, bob)
	s.Join(t, g, carol)

	out, err := newGenerate(s, notifier).Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)

	pairings, err := s.Pairings.FindByGroup(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, pairings, 3)
	for _, p := range pairings {
		assert.NotEqual(t, p.GiverID, p.ReceiverID)
	}

	reloaded, err := s.Groups.FindGroupByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.PairingsDone)

	events := notifier.Events()
	require.Len(t, events, 3)
	names := map[string]bool{"Alice": true, "Bob": true, "Carol": true}
	for _, e := range events {
		assert.Equal(t, entity.NotificationAssignment, e.Kind)
		assert.True(t, names[e.ReceiverName], "unexpected receiver %q", e.ReceiverName)
	}
}

func TestGeneratePairings_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, s *testutil.Store) (*entity.Group, uuid.UUID)
		wantKind domainerror.Kind
	}{
		{
			name: "not the creator",
			setup: func(t *testing.T, s *testutil.Store) (*entity.Group, uuid.UUID) {
				alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
				g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
				s.Join(t, g, bob)
				return g, bob.ID
			},
			wantKind: domainerror.KindAuthorization,
		},
		{
			name: "wishlist group",
			setup: func(t *testing.T, s *testutil.Store) (*entity.Group, uuid.UUID) {
				alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
				g := s.Group(t, alice, entity.GameModeAnonymousWishlist, eventDate)
				s.Join(t, g, bob)
				return g, alice.ID
			},
			wantKind: domainerror.KindValidation,
		},
		{
			name: "single member",
			setup: func(t *testing.T, s *testutil.Store) (*entity.Group, uuid.UUID) {
				alice := s.User(t, "Alice")
				return s.Group(t, alice, entity.GameModeSecretSanta, eventDate), alice.ID
			},
			wantKind: domainerror.KindValidation,
		},
		{
			name: "archived group",
			setup: func(t *testing.T, s *testutil.Store) (*entity.Group, uuid.UUID) {
				alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
				g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
				s.Join(t, g, bob)
				g.Archived = true
				require.NoError(t, s.Groups.UpdateGroup(context.Background(), g))
				return g, alice.ID
			},
			wantKind: domainerror.KindAuthorization,
		},
		{
			name: "unknown group",
			setup: func(t *testing.T, s *testutil.Store) (*entity.Group, uuid.UUID) {
				return &entity.Group{ID: uuid.New()}, uuid.New()
			},
			wantKind: domainerror.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewStore(t)
			g, requester := tt.setup(t, s)

			_, err := newGenerate(s, &testutil.Notifier{}).Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: requester})

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domainerror.KindOf(err))
			count, err := s.Pairings.CountByGroup(context.Background(), g.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestGeneratePairings_SecondDrawConflicts(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
	s.Join(t, g, bob)
	uc := newGenerate(s, &testutil.Notifier{})

	_, err := uc.Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: alice.ID})
	require.NoError(t, err)
	before, err := s.Pairings.FindByGroup(context.Background(), g.ID)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: alice.ID})
	assert.True(t, domainerror.IsKind(err, domainerror.KindConflict))

	after, err := s.Pairings.FindByGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestGeneratePairings_WithoutNotifier(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
	s.Join(t, g, bob)
	uc := NewGeneratePairingsUseCase(s.Tx, s.Groups, s.Pairings, nil, adapters.NewSeededRandomSource(5, 6))

	out, err := uc.Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
}

func TestGeneratePairings_ConcurrentDrawsProduceOneSet(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob, carol := s.User(t, "Alice"), s.User(t, "Bob"), s.User(t, "Carol")
	g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
	s.Join(t, g, bob)
	s.Join(t, g, carol)
	uc := newGenerate(s, &testutil.Notifier{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: alice.ID})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, domainerror.IsKind(err, domainerror.KindConflict), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	var rows int64
	require.NoError(t, s.DB.Model(&model.PairingModel{}).Where("group_id = ?", g.ID).Count(&rows).Error)
	assert.Equal(t, int64(3), rows)
}

func TestGetMyAssignment(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
	s.Join(t, g, bob)
	uc := NewGetMyAssignmentUseCase(s.Groups, s.Pairings, s.Users)

	out, err := uc.Execute(context.Background(), GetMyAssignmentInput{GroupID: g.ID, UserID: bob.ID})
	require.NoError(t, err)
	assert.False(t, out.Assignment.HasPairing)
	assert.Equal(t, NotDrawnMessage, out.Message)

	_, err = newGenerate(s, &testutil.Notifier{}).Execute(context.Background(), GeneratePairingsInput{GroupID: g.ID, RequesterID: alice.ID})
	require.NoError(t, err)

	out, err = uc.Execute(context.Background(), GetMyAssignmentInput{GroupID: g.ID, UserID: bob.ID})
	require.NoError(t, err)
	assert.True(t, out.Assignment.HasPairing)
	assert.Equal(t, alice.ID, out.Assignment.ReceiverID)
	assert.Equal(t, "Alice", out.Assignment.ReceiverName)

	outsider := s.User(t, "Eve")
	_, err = uc.Execute(context.Background(), GetMyAssignmentInput{GroupID: g.ID, UserID: outsider.ID})
	assert.True(t, domainerror.IsKind(err, domainerror.KindAuthorization))
}

func TestGetMyAssignment_MissingPairingIsInvariantViolation(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := s.Group(t, alice, entity.GameModeSecretSanta, eventDate)
	s.Join(t, g, bob)
	require.NoError(t, s.Groups.MarkPairingsDone(context.Background(), g.ID))

	_, err := NewGetMyAssignmentUseCase(s.Groups, s.Pairings, s.Users).
		Execute(context.Background(), GetMyAssignmentInput{GroupID: g.ID, UserID: bob.ID})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerror.ErrInvariantViolation)
	assert.Equal(t, domainerror.KindInvariant, domainerror.KindOf(err))
}
