// Package notify delivers domain notifications off the request path.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// Recorder observes dispatch outcomes.
type Recorder interface {
	NotificationDispatched(kind string)
	NotificationDropped()
}

// Config sizes the dispatcher.
type Config struct {
	Workers    int
	BufferSize int
}

// Dispatcher implements adapter.Notifier with a buffered channel drained by
// a fixed pool of workers. Each event becomes an in-app notification row and
// a queued email. Notify never blocks: a full buffer drops the event.
type Dispatcher struct {
	notifications adapter.NotificationRepository
	users         adapter.UserRepository
	emails        adapter.EmailService
	recorder      Recorder

	events chan adapter.NotificationEvent
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher and starts its workers. emails and
// recorder may be nil.
func NewDispatcher(
	notifications adapter.NotificationRepository,
	users adapter.UserRepository,
	emails adapter.EmailService,
	recorder Recorder,
	cfg Config,
) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	d := &Dispatcher{
		notifications: notifications,
		users:         users,
		emails:        emails,
		recorder:      recorder,
		events:        make(chan adapter.NotificationEvent, cfg.BufferSize),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.run()
	}
	return d
}

// Notify enqueues the event and returns immediately.
func (d *Dispatcher) Notify(_ context.Context, event adapter.NotificationEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("Notification dropped after shutdown", "kind", event.Kind, "user_id", event.TargetUserID)
		d.dropped()
		return
	}

	select {
	case d.events <- event:
	default:
		slog.Warn("Notification buffer full, dropping event",
			"kind", event.Kind,
			"user_id", event.TargetUserID,
			"group_id", event.GroupID,
		)
		d.dropped()
	}
}

// Shutdown stops accepting events and waits for queued ones to be handled
// or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification dispatcher shutdown: %w", ctx.Err())
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for event := range d.events {
		d.handle(context.Background(), event)
	}
}

func (d *Dispatcher) handle(ctx context.Context, event adapter.NotificationEvent) {
	logger := slog.With(
		"kind", event.Kind,
		"user_id", event.TargetUserID,
		"group_id", event.GroupID,
	)

	notification := entity.NewNotification(event.TargetUserID, event.GroupID, event.Kind, Message(event))
	if event.GiftName != "" {
		name := event.GiftName
		notification.OriginalGiftName = &name
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		logger.Error("Failed to persist notification", "error", err)
		return
	}
	if d.recorder != nil {
		d.recorder.NotificationDispatched(string(event.Kind))
	}

	if d.emails == nil {
		return
	}
	if err := d.queueEmail(ctx, event); err != nil {
		logger.Error("Failed to queue notification email", "error", err)
	}
}

func (d *Dispatcher) queueEmail(ctx context.Context, event adapter.NotificationEvent) error {
	user, err := d.users.FindByID(ctx, event.TargetUserID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}
	recipient := adapter.Recipient{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
	}
	groupID := event.GroupID.String()

	switch event.Kind {
	case entity.NotificationAssignment:
		return d.emails.QueueAssignmentEmail(ctx, adapter.QueueAssignmentInput{
			Recipient:    recipient,
			GroupID:      groupID,
			GroupName:    event.GroupName,
			ReceiverName: event.ReceiverName,
		})
	case entity.NotificationGiftModified, entity.NotificationGiftDeleted:
		return d.emails.QueueGiftChangeEmail(ctx, adapter.QueueGiftChangeInput{
			Recipient: recipient,
			GroupID:   groupID,
			GroupName: event.GroupName,
			GiftName:  event.GiftName,
			Deleted:   event.Kind == entity.NotificationGiftDeleted,
		})
	case entity.NotificationEventDay:
		return d.emails.QueueEventDayEmail(ctx, adapter.QueueEventDayInput{
			Recipient: recipient,
			GroupID:   groupID,
			GroupName: event.GroupName,
		})
	}
	return errors.New("no email template for notification kind " + string(event.Kind))
}

func (d *Dispatcher) dropped() {
	if d.recorder != nil {
		d.recorder.NotificationDropped()
	}
}

var _ adapter.Notifier = (*Dispatcher)(nil)
