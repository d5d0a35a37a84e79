package notify

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
	"github.com/giftcircle/backend/internal/testutil"
)

type recordingEmails struct {
	mu          sync.Mutex
	assignments []adapter.QueueAssignmentInput
	changes     []adapter.QueueGiftChangeInput
	eventDays   []adapter.QueueEventDayInput
}

func (r *recordingEmails) QueueGroupInvitationEmail(context.Context, adapter.QueueGroupInvitationInput) error {
	return nil
}

func (r *recordingEmails) QueueAssignmentEmail(_ context.Context, in adapter.QueueAssignmentInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, in)
	return nil
}

func (r *recordingEmails) QueueGiftChangeEmail(_ context.Context, in adapter.QueueGiftChangeInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, in)
	return nil
}

func (r *recordingEmails) QueueEventDayEmail(_ context.Context, in adapter.QueueEventDayInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventDays = append(r.eventDays, in)
	return nil
}

type countingRecorder struct {
	mu         sync.Mutex
	dispatched map[string]int
	dropped    int
}

func (c *countingRecorder) NotificationDispatched(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dispatched == nil {
		c.dispatched = map[string]int{}
	}
	c.dispatched[kind]++
}

func (c *countingRecorder) NotificationDropped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped++
}

// blockingRepo holds every Create until release is closed.
type blockingRepo struct {
	adapter.NotificationRepository
	release chan struct{}
}

func (b *blockingRepo) Create(ctx context.Context, n *entity.Notification) error {
	<-b.release
	return nil
}

func TestDispatcher_PersistsAndQueuesEmail(t *testing.T) {
	s := testutil.NewStore(t)
	alice := s.User(t, "Alice")
	g := s.Group(t, alice, entity.GameModeSecretSanta, time.Now().AddDate(0, 1, 0))
	emails := &recordingEmails{}
	recorder := &countingRecorder{}
	d := NewDispatcher(s.Notifications, s.Users, emails, recorder, Config{Workers: 2, BufferSize: 8})

	d.Notify(context.Background(), adapter.NotificationEvent{
		Kind:         entity.NotificationAssignment,
		TargetUserID: alice.ID,
		GroupID:      g.ID,
		GroupName:    g.Name,
		ReceiverName: "Bob",
	})
	d.Notify(context.Background(), adapter.NotificationEvent{
		Kind:         entity.NotificationGiftDeleted,
		TargetUserID: alice.ID,
		GroupID:      g.ID,
		GroupName:    g.Name,
		GiftName:     "Bufanda",
	})
	require.NoError(t, d.Shutdown(context.Background()))

	stored, err := s.Notifications.FindUnreadByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	var deleted *entity.Notification
	for _, n := range stored {
		if n.Kind == entity.NotificationGiftDeleted {
			deleted = n
		}
	}
	require.NotNil(t, deleted)
	require.NotNil(t, deleted.OriginalGiftName)
	assert.Equal(t, "Bufanda", *deleted.OriginalGiftName)
	assert.Contains(t, deleted.Message, "ELIMINADO")

	require.Len(t, emails.assignments, 1)
	assert.Equal(t, "Bob", emails.assignments[0].ReceiverName)
	assert.Equal(t, alice.Email, emails.assignments[0].Email)
	require.Len(t, emails.changes, 1)
	assert.True(t, emails.changes[0].Deleted)
	assert.Equal(t, 1, recorder.dispatched[string(entity.NotificationAssignment)])
}

func TestDispatcher_DropsWhenBufferFull(t *testing.T) {
	repo := &blockingRepo{release: make(chan struct{})}
	recorder := &countingRecorder{}
	d := NewDispatcher(repo, nil, nil, recorder, Config{Workers: 1, BufferSize: 1})

	event := adapter.NotificationEvent{Kind: entity.NotificationEventDay, TargetUserID: uuid.New(), GroupID: uuid.New()}
	d.Notify(context.Background(), event)
	// Wait for the worker to pick up the first event so the buffer is empty.
	require.Eventually(t, func() bool { return len(d.events) == 0 }, time.Second, 5*time.Millisecond)
	d.Notify(context.Background(), event)
	d.Notify(context.Background(), event)

	recorder.mu.Lock()
	assert.Equal(t, 1, recorder.dropped)
	recorder.mu.Unlock()

	close(repo.release)
	require.NoError(t, d.Shutdown(context.Background()))

	d.Notify(context.Background(), event)
	assert.Equal(t, 2, recorder.dropped)
}

func TestDispatcher_ShutdownHonoursDeadline(t *testing.T) {
	repo := &blockingRepo{release: make(chan struct{})}
	d := NewDispatcher(repo, nil, nil, nil, Config{})
	d.Notify(context.Background(), adapter.NotificationEvent{Kind: entity.NotificationEventDay})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Shutdown(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(repo.release)
}

func TestMessage(t *testing.T) {
	assert.Contains(t, Message(adapter.NotificationEvent{Kind: entity.NotificationGiftModified, GiftName: "Libro"}), `"Libro"`)
	assert.Contains(t, Message(adapter.NotificationEvent{Kind: entity.NotificationAssignment, GroupName: "Oficina", ReceiverName: "Eva"}), "Eva")
	assert.Contains(t, Message(adapter.NotificationEvent{Kind: entity.NotificationEventDay, GroupName: "Boda"}), "Boda")
	assert.Equal(t, "custom", Message(adapter.NotificationEvent{Kind: "custom"}))
}
