package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/email/templates"
	"github.com/giftcircle/backend/internal/testutil"
)

type statusRecorder struct {
	statuses []string
}

func (r *statusRecorder) EmailSent(_, status string) {
	r.statuses = append(r.statuses, status)
}

func newWorker(t *testing.T, s *testutil.Store, sender adapter.EmailSender, recorder DeliveryRecorder) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	return NewWorker(s.Emails, sender, renderer, recorder, WorkerConfig{BatchSize: 10})
}

func TestService_QueuesEveryTemplate(t *testing.T) {
	s := testutil.NewStore(t)
	svc := NewService(s.Emails, "https://app.example.com/")
	ctx := context.Background()
	recipient := adapter.Recipient{UserID: "u1", Email: "ana@example.com", Name: "Ana"}

	require.NoError(t, svc.QueueGroupInvitationEmail(ctx, adapter.QueueGroupInvitationInput{
		InviterName: "Luis", GroupName: "Familia", InviteEmail: "ana@example.com", InviteURL: "https://app.example.com/invite/t",
	}))
	require.NoError(t, svc.QueueAssignmentEmail(ctx, adapter.QueueAssignmentInput{Recipient: recipient, GroupID: "g1", GroupName: "Familia", ReceiverName: "Eva"}))
	require.NoError(t, svc.QueueGiftChangeEmail(ctx, adapter.QueueGiftChangeInput{Recipient: recipient, GroupID: "g1", GroupName: "Familia", GiftName: "Libro", Deleted: true}))
	require.NoError(t, svc.QueueEventDayEmail(ctx, adapter.QueueEventDayInput{Recipient: recipient, GroupID: "g1", GroupName: "Familia"}))

	queued, err := s.Emails.ListFor(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, queued, 4)

	byTemplate := map[entity.EmailTemplate]*entity.OutboundEmail{}
	for _, msg := range queued {
		byTemplate[msg.Template] = msg
		assert.Equal(t, entity.OutboxQueued, msg.State)
		assert.Equal(t, entity.DefaultMaxAttempts, msg.MaxAttempts)
	}
	assert.Equal(t, "Luis te ha invitado a Familia", byTemplate[entity.TemplateGroupInvitation].Subject)
	assert.Equal(t, "https://app.example.com/groups/g1", byTemplate[entity.TemplateEventDay].Data["group_url"])
	change := byTemplate[entity.TemplateGiftChange]
	assert.Equal(t, "eliminado", change.Data["action"])
	assert.Equal(t, "true", change.Data["deleted"])
}

func TestWorker_DeliversQueuedEmails(t *testing.T) {
	s := testutil.NewStore(t)
	svc := NewService(s.Emails, "https://app.example.com")
	sender := NewLogSender()
	recorder := &statusRecorder{}
	w := newWorker(t, s, sender, recorder)

	require.NoError(t, svc.QueueAssignmentEmail(context.Background(), adapter.QueueAssignmentInput{
		Recipient:    adapter.Recipient{Email: "ana@example.com", Name: "Ana"},
		GroupID:      "g1",
		GroupName:    "Oficina",
		ReceiverName: "Eva",
	}))

	w.ProcessNow(context.Background())

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].To)
	assert.Equal(t, "Ana", sent[0].ToName)
	assert.Contains(t, sent[0].HTML, "Eva")
	assert.Contains(t, sent[0].Text, "Oficina")
	assert.Equal(t, []string{"delivered"}, recorder.statuses)

	stored, err := s.Emails.ListFor(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entity.OutboxDelivered, stored[0].State)
	assert.Equal(t, "local-1", stored[0].ProviderID)
	assert.Equal(t, 1, stored[0].Attempts)

	w.ProcessNow(context.Background())
	assert.Len(t, sender.Sent(), 1)
}

func TestWorker_Failures(t *testing.T) {
	tests := []struct {
		name      string
		sendErr   error
		wantState entity.OutboxState
	}{
		{
			name:      "temporary failure is retried later",
			sendErr:   domainerror.NewDeliveryError("", false, errors.New("503")),
			wantState: entity.OutboxQueued,
		},
		{
			name:      "unclassified failure is retried later",
			sendErr:   errors.New("connection reset"),
			wantState: entity.OutboxQueued,
		},
		{
			name:      "permanent failure stops retries",
			sendErr:   domainerror.NewDeliveryError("", true, errors.New("422")),
			wantState: entity.OutboxDead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewStore(t)
			sender := NewLogSender()
			sender.FailWith(tt.sendErr)
			w := newWorker(t, s, sender, nil)
			require.NoError(t, NewService(s.Emails, "").QueueEventDayEmail(context.Background(), adapter.QueueEventDayInput{
				Recipient: adapter.Recipient{Email: "ana@example.com"},
				GroupName: "Boda",
			}))

			w.ProcessNow(context.Background())

			stored, err := s.Emails.ListFor(context.Background(), "ana@example.com")
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, tt.wantState, stored[0].State)
			assert.Equal(t, 1, stored[0].Attempts)
			assert.Empty(t, sender.Sent())

			// A retried email is not due again on the very next poll.
			sender.FailWith(nil)
			w.ProcessNow(context.Background())
			assert.Empty(t, sender.Sent())
		})
	}
}

func TestWorker_UnknownTemplateIsDead(t *testing.T) {
	s := testutil.NewStore(t)
	msg := entity.NewOutboundEmail("newsletter", "ana@example.com", "Ana", "Hola", nil, time.Now().UTC())
	require.NoError(t, s.Emails.Enqueue(context.Background(), msg))
	sender := NewLogSender()

	newWorker(t, s, sender, nil).ProcessNow(context.Background())

	stored, err := s.Emails.Get(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutboxDead, stored.State)
	assert.Contains(t, stored.LastError, "unknown email template")
	assert.Empty(t, sender.Sent())
}

func TestOutbox_ClaimDueLeasesOnce(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Emails.Enqueue(ctx, entity.NewOutboundEmail(entity.TemplateEventDay, "ana@example.com", "", "Hoy", nil, now.Add(-time.Minute))))
	}
	later := entity.NewOutboundEmail(entity.TemplateEventDay, "ana@example.com", "", "Luego", nil, now)
	later.NotBefore = now.Add(time.Hour)
	require.NoError(t, s.Emails.Enqueue(ctx, later))

	first, err := s.Emails.ClaimDue(ctx, now, time.Minute, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	for _, msg := range first {
		assert.Equal(t, entity.OutboxSending, msg.State)
	}

	second, err := s.Emails.ClaimDue(ctx, now, time.Minute, 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotContains(t, []any{first[0].ID, first[1].ID}, second[0].ID)

	none, err := s.Emails.ClaimDue(ctx, now, time.Minute, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	expired, err := s.Emails.ClaimDue(ctx, now.Add(2*time.Minute), time.Minute, 10)
	require.NoError(t, err)
	assert.Len(t, expired, 3, "leases that ran out are claimable again")
}

func TestOutbox_PurgeDelivered(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := entity.NewOutboundEmail(entity.TemplateEventDay, "ana@example.com", "", "Viejo", nil, now)
	old.Delivered("p1", now.Add(-10*24*time.Hour))
	fresh := entity.NewOutboundEmail(entity.TemplateEventDay, "ana@example.com", "", "Nuevo", nil, now)
	fresh.Delivered("p2", now)
	dead := entity.NewOutboundEmail(entity.TemplateEventDay, "ana@example.com", "", "Muerto", nil, now)
	dead.Failed(errors.New("rejected"), true, now.Add(-10*24*time.Hour))
	for _, msg := range []*entity.OutboundEmail{old, fresh, dead} {
		require.NoError(t, s.Emails.Enqueue(ctx, msg))
	}

	n, err := s.Emails.PurgeDelivered(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Emails.Get(ctx, old.ID)
	assert.ErrorIs(t, err, domainerror.ErrOutboundEmailNotFound)
}

func TestRenderer_AllTemplates(t *testing.T) {
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)

	tests := []struct {
		name   string
		fields templates.Fields
		want   string
	}{
		{"group_invitation", templates.Fields{"inviter_name": "Luis", "group_name": "Familia", "invite_url": "https://x/invite/t"}, "https://x/invite/t"},
		{"secret_santa_assignment", templates.Fields{"user_name": "Ana", "group_name": "Oficina", "receiver_name": "Eva"}, "Eva"},
		{"gift_change", templates.Fields{"user_name": "Ana", "gift_name": "Libro", "action": "eliminado", "deleted": "true"}, "Ya no aparece en la lista"},
		{"event_day", templates.Fields{"user_name": "Ana", "group_name": "Boda"}, "Boda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := templates.Decode(tt.name, tt.fields)
			require.True(t, ok)

			body, err := renderer.Render(tt.name, data)
			require.NoError(t, err)
			assert.Contains(t, body.HTML, tt.want)
			assert.Contains(t, body.Text, tt.want)
		})
	}

	_, ok := templates.Decode("missing", nil)
	assert.False(t, ok)
	_, err = renderer.Render("missing", nil)
	assert.Error(t, err)
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		err  string
		want bool
	}{
		{"401 Unauthorized", true},
		{"validation_error: invalid `to` field", true},
		{"429 rate limit exceeded", false},
		{"500 internal server error", false},
		{"dial tcp: i/o timeout", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.want, isPermanentError(errors.New(tt.err)))
		})
	}
}
