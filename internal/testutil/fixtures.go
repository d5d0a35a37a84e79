// Package testutil builds SQLite-backed fixtures for use case and adapter tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	"github.com/giftcircle/backend/internal/infra/db"
	"github.com/giftcircle/backend/internal/integration/persistence"
)

// Store bundles a migrated in-memory database with its repositories.
type Store struct {
	DB            *gorm.DB
	Users         adapter.UserRepository
	Groups        adapter.GroupRepository
	Gifts         adapter.GiftRepository
	Pairings      adapter.PairingRepository
	Notifications adapter.NotificationRepository
	Emails        adapter.EmailOutbox
	Tx            adapter.TxManager
}

// NewStore opens a private in-memory database and migrates the schema.
func NewStore(t testing.TB) *Store {
	t.Helper()

	database, err := db.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })

	gdb := database.DB()
	return &Store{
		DB:            gdb,
		Users:         persistence.NewUserRepository(gdb),
		Groups:        persistence.NewGroupRepository(gdb),
		Gifts:         persistence.NewGiftRepository(gdb),
		Pairings:      persistence.NewPairingRepository(gdb),
		Notifications: persistence.NewNotificationRepository(gdb),
		Emails:        persistence.NewOutboxRepository(gdb),
		Tx:            persistence.NewTxManager(gdb),
	}
}

// User inserts a user named name.
func (s *Store) User(t testing.TB, name string) *entity.User {
	t.Helper()
	user := entity.NewUser(strings.ToLower(name)+"-"+uuid.NewString()[:8]+"@example.com", name, "hash")
	require.NoError(t, s.Users.Create(context.Background(), user))
	return user
}

// Group inserts a group created by creator, who becomes its first member.
func (s *Store) Group(t testing.TB, creator *entity.User, mode entity.GameMode, eventDate time.Time) *entity.Group {
	t.Helper()
	g := entity.NewGroup("Familia", mode, entity.CelebrationChristmas, eventDate, uuid.NewString()[:8], creator.ID)
	require.NoError(t, s.Groups.CreateGroup(context.Background(), g))
	s.Join(t, g, creator)
	return g
}

// Join adds user to g.
func (s *Store) Join(t testing.TB, g *entity.Group, user *entity.User) {
	t.Helper()
	require.NoError(t, s.Groups.CreateMember(context.Background(), entity.NewMembership(g.ID, user.ID)))
}

// Gift inserts an unclaimed gift requested by requester.
func (s *Store) Gift(t testing.TB, g *entity.Group, requester *entity.User, name string) *entity.Gift {
	t.Helper()
	gift := entity.NewGift(name, nil, nil, requester.ID, g.ID)
	require.NoError(t, s.Gifts.Create(context.Background(), gift))
	return gift
}

// Clock is a fixed clock.
type Clock struct {
	T time.Time
}

// Now implements adapter.Clock.
func (c Clock) Now() time.Time {
	return c.T
}

// SequenceRandom replays values modulo n, so draws are reproducible.
type SequenceRandom struct {
	Values []int
	next   int
}

// Intn implements adapter.RandomSource.
func (r *SequenceRandom) Intn(n int) int {
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[r.next%len(r.Values)]
	r.next++
	return v % n
}

// Notifier records events synchronously.
type Notifier struct {
	mu     sync.Mutex
	events []adapter.NotificationEvent
}

// Notify implements adapter.Notifier.
func (n *Notifier) Notify(_ context.Context, event adapter.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

// Events returns a copy of the recorded events.
func (n *Notifier) Events() []adapter.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]adapter.NotificationEvent(nil), n.events...)
}
