package adapter

import "context"

// RenderedEmail is a fully rendered message ready for a provider.
type RenderedEmail struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// EmailSender hands rendered emails to a provider and returns the
// provider's message id. Errors should be *domainerror.DeliveryError so the
// caller can tell retryable failures apart.
type EmailSender interface {
	Send(ctx context.Context, email RenderedEmail) (providerID string, err error)
}

// EmailService turns domain events into outbox entries.
type EmailService interface {
	// QueueGroupInvitationEmail queues a group invitation email.
	QueueGroupInvitationEmail(ctx context.Context, input QueueGroupInvitationInput) error

	// QueueAssignmentEmail tells a giver who they drew.
	QueueAssignmentEmail(ctx context.Context, input QueueAssignmentInput) error

	// QueueGiftChangeEmail tells a claimant that a gift was modified or deleted.
	QueueGiftChangeEmail(ctx context.Context, input QueueGiftChangeInput) error

	// QueueEventDayEmail tells a member that the wishlist is open.
	QueueEventDayEmail(ctx context.Context, input QueueEventDayInput) error
}

// QueueGroupInvitationInput represents the input for queueing a group invitation email.
type QueueGroupInvitationInput struct {
	InviterName  string
	InviterEmail string
	GroupName    string
	InviteEmail  string
	InviteURL    string
	ExpiresIn    string
}

// Recipient identifies the user an email goes to.
type Recipient struct {
	UserID string
	Email  string
	Name   string
}

// QueueAssignmentInput represents the input for a Secret Santa assignment email.
type QueueAssignmentInput struct {
	Recipient
	GroupID      string
	GroupName    string
	ReceiverName string
}

// QueueGiftChangeInput represents the input for a gift change email.
type QueueGiftChangeInput struct {
	Recipient
	GroupID   string
	GroupName string
	GiftName  string
	Deleted   bool
}

// QueueEventDayInput represents the input for an event-day email.
type QueueEventDayInput struct {
	Recipient
	GroupID   string
	GroupName string
}
