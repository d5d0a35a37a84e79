package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/domain/entity"
	"github.com/giftcircle/backend/internal/testutil"
)

func seedNotifications(t *testing.T, s *testutil.Store, target *entity.User, groupID uuid.UUID, n int) []*entity.Notification {
	t.Helper()
	base := time.Now().UTC().Add(-time.Hour)
	out := make([]*entity.Notification, n)
	for i := 0; i < n; i++ {
		notification := entity.NewNotification(target.ID, groupID, entity.NotificationGiftModified, "cambio")
		notification.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Notifications.Create(context.Background(), notification))
		out[i] = notification
	}
	return out
}

func TestListNotifications_UnreadNewestFirst(t *testing.T) {
	s := testutil.NewStore(t)
	alice := s.User(t, "Alice")
	g := s.Group(t, alice, entity.GameModeAnonymousWishlist, time.Now().AddDate(0, 1, 0))
	seeded := seedNotifications(t, s, alice, g.ID, 3)

	out, err := NewListNotificationsUseCase(s.Notifications).Execute(context.Background(), ListInput{UserID: alice.ID, UnreadOnly: true})
	require.NoError(t, err)

	require.Len(t, out.Notifications, 3)
	assert.Equal(t, seeded[2].ID, out.Notifications[0].ID)
	assert.Equal(t, seeded[0].ID, out.Notifications[2].ID)
	assert.Equal(t, "Familia", out.Notifications[0].GroupName)
}

func TestListNotifications_HistoryIsCapped(t *testing.T) {
	s := testutil.NewStore(t)
	alice := s.User(t, "Alice")
	g := s.Group(t, alice, entity.GameModeAnonymousWishlist, time.Now().AddDate(0, 1, 0))
	seedNotifications(t, s, alice, g.ID, HistoryLimit+5)
	_, err := s.Notifications.MarkRead(context.Background(), alice.ID, nil)
	require.NoError(t, err)

	unread, err := NewListNotificationsUseCase(s.Notifications).Execute(context.Background(), ListInput{UserID: alice.ID, UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread.Notifications)

	history, err := NewListNotificationsUseCase(s.Notifications).Execute(context.Background(), ListInput{UserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, history.Notifications, HistoryLimit)
	assert.True(t, history.Notifications[0].IsRead)
}

func TestMarkRead(t *testing.T) {
	s := testutil.NewStore(t)
	alice, bob := s.User(t, "Alice"), s.User(t, "Bob")
	g := s.Group(t, alice, entity.GameModeAnonymousWishlist, time.Now().AddDate(0, 1, 0))
	mine := seedNotifications(t, s, alice, g.ID, 3)
	theirs := seedNotifications(t, s, bob, g.ID, 1)
	uc := NewMarkReadUseCase(s.Notifications)

	out, err := uc.Execute(context.Background(), MarkReadInput{UserID: alice.ID, IDs: []uuid.UUID{mine[0].ID, theirs[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Updated)

	out, err = uc.Execute(context.Background(), MarkReadInput{UserID: alice.ID, IDs: []uuid.UUID{mine[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Updated)

	out, err = uc.Execute(context.Background(), MarkReadInput{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Updated)

	bobUnread, err := s.Notifications.FindUnreadByUser(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobUnread, 1)
}
