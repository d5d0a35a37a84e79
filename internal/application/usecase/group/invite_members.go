package group

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

const (
	// InviteTokenLength is the length of the invite token in bytes.
	InviteTokenLength = 32
	// InviteExpirationDays is the number of days until an invite expires.
	InviteExpirationDays = 7
	// MaxInvitesPerRequest caps the number of addresses in one request.
	MaxInvitesPerRequest = 50
)

// emailRegex accepts the addresses an invite list may contain.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// InviteStatus is the per-address outcome of an invite request.
type InviteStatus string

const (
	InviteStatusInvited        InviteStatus = "invited"
	InviteStatusAlreadyMember  InviteStatus = "already_member"
	InviteStatusAlreadyInvited InviteStatus = "already_invited"
	InviteStatusInvalid        InviteStatus = "invalid"
)

// InviteResult is the outcome for one address.
type InviteResult struct {
	Email  string
	Status InviteStatus
}

// InviteMembersInput represents the input for inviting members.
type InviteMembersInput struct {
	GroupID   uuid.UUID
	InviterID uuid.UUID
	Emails    []string
}

// InviteMembersOutput represents the output of inviting members.
type InviteMembersOutput struct {
	Results []InviteResult
}

// InviteMembersUseCase handles emailing invitations to a group.
type InviteMembersUseCase struct {
	groupRepo    adapter.GroupRepository
	userRepo     adapter.UserRepository
	emailService adapter.EmailService
	clock        adapter.Clock
	appBaseURL   string
}

// NewInviteMembersUseCase creates a new InviteMembersUseCase instance.
func NewInviteMembersUseCase(
	groupRepo adapter.GroupRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
	clock adapter.Clock,
	appBaseURL string,
) *InviteMembersUseCase {
	return &InviteMembersUseCase{
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		emailService: emailService,
		clock:        clock,
		appBaseURL:   strings.TrimRight(appBaseURL, "/"),
	}
}

// Execute creates one pending invite per new address and queues its email.
func (uc *InviteMembersUseCase) Execute(ctx context.Context, input InviteMembersInput) (*InviteMembersOutput, error) {
	if len(input.Emails) == 0 {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNoInviteEmails,
			"at least one email is required",
			domainerror.ErrNoInviteEmails,
		)
	}
	if len(input.Emails) > MaxInvitesPerRequest {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeMissingGroupFields,
			fmt.Sprintf("at most %d emails per request", MaxInvitesPerRequest),
			nil,
		)
	}

	group, _, err := RequireMembership(ctx, uc.groupRepo, input.GroupID, input.InviterID)
	if err != nil {
		return nil, err
	}
	if group.Archived {
		return nil, domainerror.NewGroupArchivedError()
	}
	if group.JoinClosed() {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeJoinClosed,
			"the draw has already been made, this group no longer accepts members",
			domainerror.ErrJoinClosed,
		)
	}

	inviter, err := uc.userRepo.FindByID(ctx, input.InviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inviter info: %w", err)
	}

	seen := make(map[string]bool, len(input.Emails))
	results := make([]InviteResult, 0, len(input.Emails))
	for _, raw := range input.Emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if seen[email] {
			continue
		}
		seen[email] = true

		status, err := uc.inviteOne(ctx, group, inviter, email)
		if err != nil {
			return nil, err
		}
		results = append(results, InviteResult{Email: email, Status: status})
	}

	return &InviteMembersOutput{
		Results: results,
	}, nil
}

func (uc *InviteMembersUseCase) inviteOne(ctx context.Context, group *entity.Group, inviter *entity.User, email string) (InviteStatus, error) {
	if !isValidEmail(email) || strings.EqualFold(inviter.Email, email) {
		return InviteStatusInvalid, nil
	}

	if existingUser, err := uc.userRepo.FindByEmail(ctx, email); err == nil && existingUser != nil {
		isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, group.ID, existingUser.ID)
		if err != nil {
			return "", fmt.Errorf("failed to check existing membership: %w", err)
		}
		if isMember {
			return InviteStatusAlreadyMember, nil
		}
	}

	now := uc.clock.Now().UTC()
	existingInvite, err := uc.groupRepo.FindPendingInviteByGroupAndEmail(ctx, group.ID, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing invites: %w", err)
	}
	if existingInvite != nil && !existingInvite.ExpiredAt(now) {
		return InviteStatusAlreadyInvited, nil
	}

	token, err := generateInviteToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	expiresAt := now.AddDate(0, 0, InviteExpirationDays)
	invite := entity.NewGroupInvite(group.ID, email, token, inviter.ID, expiresAt)
	if err := uc.groupRepo.CreateInvite(ctx, invite); err != nil {
		return "", fmt.Errorf("failed to create invite: %w", err)
	}

	if uc.emailService != nil {
		err := uc.emailService.QueueGroupInvitationEmail(ctx, adapter.QueueGroupInvitationInput{
			InviterName:  inviter.Name,
			InviterEmail: inviter.Email,
			GroupName:    group.Name,
			InviteEmail:  email,
			InviteURL:    uc.appBaseURL + "/invite/" + token,
			ExpiresIn:    fmt.Sprintf("%d días", InviteExpirationDays),
		})
		if err != nil {
			slog.Error("Failed to queue invitation email", "error", err, "group_id", group.ID, "invite_id", invite.ID)
		}
	}

	return InviteStatusInvited, nil
}

// isValidEmail validates email format.
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// generateInviteToken generates a secure random token for invites.
func generateInviteToken() (string, error) {
	bytes := make([]byte, InviteTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
