// Package email queues, renders and delivers transactional emails.
package email

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// Service turns domain events into outbox entries. Delivery happens later
// in the Worker.
type Service struct {
	outbox     adapter.EmailOutbox
	appBaseURL string
	now        func() time.Time
}

// NewService creates a new email service.
func NewService(outbox adapter.EmailOutbox, appBaseURL string) *Service {
	return &Service{
		outbox:     outbox,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// QueueGroupInvitationEmail queues a group invitation email.
func (s *Service) QueueGroupInvitationEmail(ctx context.Context, in adapter.QueueGroupInvitationInput) error {
	return s.enqueue(ctx, entity.TemplateGroupInvitation, in.InviteEmail, "",
		fmt.Sprintf("%s te ha invitado a %s", in.InviterName, in.GroupName),
		map[string]string{
			"inviter_name":  in.InviterName,
			"inviter_email": in.InviterEmail,
			"group_name":    in.GroupName,
			"invite_url":    in.InviteURL,
			"expires_in":    in.ExpiresIn,
		})
}

// QueueAssignmentEmail tells a giver who they drew.
func (s *Service) QueueAssignmentEmail(ctx context.Context, in adapter.QueueAssignmentInput) error {
	return s.enqueue(ctx, entity.TemplateSecretSantaAssignment, in.Email, in.Name,
		fmt.Sprintf("🎭 ¡Ya tienes tu asignación de Amigo Invisible! - %s", in.GroupName),
		map[string]string{
			"user_name":     in.Name,
			"group_name":    in.GroupName,
			"receiver_name": in.ReceiverName,
			"group_url":     s.groupURL(in.GroupID),
		})
}

// QueueGiftChangeEmail tells a claimant that a gift they bought changed.
func (s *Service) QueueGiftChangeEmail(ctx context.Context, in adapter.QueueGiftChangeInput) error {
	action := "modificado"
	if in.Deleted {
		action = "eliminado"
	}
	return s.enqueue(ctx, entity.TemplateGiftChange, in.Email, in.Name,
		fmt.Sprintf("¡Atención! Un regalo que compraste fue %s", action),
		map[string]string{
			"user_name":  in.Name,
			"group_name": in.GroupName,
			"gift_name":  in.GiftName,
			"action":     action,
			"deleted":    strconv.FormatBool(in.Deleted),
			"group_url":  s.groupURL(in.GroupID),
		})
}

// QueueEventDayEmail tells a member that the wishlist is open.
func (s *Service) QueueEventDayEmail(ctx context.Context, in adapter.QueueEventDayInput) error {
	return s.enqueue(ctx, entity.TemplateEventDay, in.Email, in.Name,
		fmt.Sprintf("🎉 ¡Ha llegado el día! %s", in.GroupName),
		map[string]string{
			"user_name":  in.Name,
			"group_name": in.GroupName,
			"group_url":  s.groupURL(in.GroupID),
		})
}

func (s *Service) enqueue(ctx context.Context, template entity.EmailTemplate, to, name, subject string, data map[string]string) error {
	msg := entity.NewOutboundEmail(template, to, name, subject, data, s.now())
	if err := s.outbox.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("failed to queue %s email: %w", template, err)
	}
	return nil
}

func (s *Service) groupURL(groupID string) string {
	return s.appBaseURL + "/groups/" + groupID
}

var _ adapter.EmailService = (*Service)(nil)
