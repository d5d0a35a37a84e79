package entity

import (
	"time"

	"github.com/google/uuid"
)

// OutboxState tracks an outbound email through delivery.
type OutboxState string

const (
	OutboxQueued    OutboxState = "queued"
	OutboxSending   OutboxState = "sending"
	OutboxDelivered OutboxState = "delivered"
	OutboxDead      OutboxState = "dead"
)

// EmailTemplate names one of the rendered email layouts.
type EmailTemplate string

const (
	TemplateGroupInvitation       EmailTemplate = "group_invitation"
	TemplateSecretSantaAssignment EmailTemplate = "secret_santa_assignment"
	TemplateGiftChange            EmailTemplate = "gift_change"
	TemplateEventDay              EmailTemplate = "event_day"
)

// DefaultMaxAttempts is how many sends an email gets before it is dead.
const DefaultMaxAttempts = 4

// retryBackoff is indexed by attempts already made, minus one.
var retryBackoff = []time.Duration{30 * time.Second, 2 * time.Minute, 10 * time.Minute}

// OutboundEmail is one message in the email outbox. Data holds the
// template fields as plain strings.
type OutboundEmail struct {
	ID          uuid.UUID
	Template    EmailTemplate
	To          string
	ToName      string
	Subject     string
	Data        map[string]string
	State       OutboxState
	Attempts    int
	MaxAttempts int
	LastError   string
	ProviderID  string
	EnqueuedAt  time.Time
	NotBefore   time.Time
	FinishedAt  *time.Time
}

// NewOutboundEmail creates a queued email that is due immediately.
func NewOutboundEmail(template EmailTemplate, to, toName, subject string, data map[string]string, now time.Time) *OutboundEmail {
	if data == nil {
		data = map[string]string{}
	}
	return &OutboundEmail{
		ID:          uuid.New(),
		Template:    template,
		To:          to,
		ToName:      toName,
		Subject:     subject,
		Data:        data,
		State:       OutboxQueued,
		MaxAttempts: DefaultMaxAttempts,
		EnqueuedAt:  now,
		NotBefore:   now,
	}
}

// Delivered records a successful hand-off to the provider.
func (m *OutboundEmail) Delivered(providerID string, at time.Time) {
	m.Attempts++
	m.State = OutboxDelivered
	m.ProviderID = providerID
	m.LastError = ""
	m.FinishedAt = &at
}

// Failed records a failed send. Permanent failures and exhausted emails
// are dead; the rest go back to the queue after a backoff.
func (m *OutboundEmail) Failed(err error, permanent bool, at time.Time) {
	m.Attempts++
	m.LastError = err.Error()

	if permanent || m.Attempts >= m.MaxAttempts {
		m.State = OutboxDead
		m.FinishedAt = &at
		return
	}

	step := min(m.Attempts, len(retryBackoff)) - 1
	m.State = OutboxQueued
	m.NotBefore = at.Add(retryBackoff[step])
}

// Due reports whether the email may be picked up at now.
func (m *OutboundEmail) Due(now time.Time) bool {
	return (m.State == OutboxQueued || m.State == OutboxSending) && !now.Before(m.NotBefore)
}
