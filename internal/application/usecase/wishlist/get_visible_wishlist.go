// Package wishlist computes the anonymized wishlist a member may see.
package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// ClaimVisibility selects which claimed gifts a viewer sees.
type ClaimVisibility string

const (
	// HideOthersClaims shows unclaimed gifts and gifts claimed by the viewer.
	HideOthersClaims ClaimVisibility = "hide_others"
	// ShowAllClaims shows every gift from others with its claim status.
	ShowAllClaims ClaimVisibility = "show_all"
)

// NotStartedMessage is returned while the event date is still ahead.
const NotStartedMessage = "La lista estará disponible a partir de la fecha de inicio"

// Item is one anonymized wishlist entry. It carries no requester identity.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description *string
	URL         *string
	ImageURL    *string
	CreatedAt   time.Time
	ClaimStatus entity.ClaimStatus
}

// GetVisibleWishlistInput represents the input for reading a group's wishlist.
type GetVisibleWishlistInput struct {
	GroupID  uuid.UUID
	ViewerID uuid.UUID
}

// GetVisibleWishlistOutput represents the wishlist as seen by the viewer.
type GetVisibleWishlistOutput struct {
	// Open is false before the event start date; Items is then empty.
	Open     bool
	Message  string
	StartsAt time.Time
	Items    []Item
}

// GetVisibleWishlistUseCase computes the wishlist a member may see.
type GetVisibleWishlistUseCase struct {
	groupRepo adapter.GroupRepository
	giftRepo  adapter.GiftRepository
	notifier  adapter.Notifier
	random    adapter.RandomSource
	clock     adapter.Clock
	policy    ClaimVisibility
}

// NewGetVisibleWishlistUseCase creates a new GetVisibleWishlistUseCase instance.
func NewGetVisibleWishlistUseCase(
	groupRepo adapter.GroupRepository,
	giftRepo adapter.GiftRepository,
	notifier adapter.Notifier,
	random adapter.RandomSource,
	clock adapter.Clock,
	policy ClaimVisibility,
) *GetVisibleWishlistUseCase {
	if policy != ShowAllClaims {
		policy = HideOthersClaims
	}
	return &GetVisibleWishlistUseCase{
		groupRepo: groupRepo,
		giftRepo:  giftRepo,
		notifier:  notifier,
		random:    random,
		clock:     clock,
		policy:    policy,
	}
}

// Policy returns the configured claim visibility.
func (uc *GetVisibleWishlistUseCase) Policy() ClaimVisibility {
	return uc.policy
}

// Execute returns the viewer's wishlist in a fresh random order.
func (uc *GetVisibleWishlistUseCase) Execute(ctx context.Context, input GetVisibleWishlistInput) (*GetVisibleWishlistOutput, error) {
	g, _, err := group.RequireMembership(ctx, uc.groupRepo, input.GroupID, input.ViewerID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	if !g.HasStarted(now) {
		return &GetVisibleWishlistOutput{
			Open:     false,
			Message:  NotStartedMessage,
			StartsAt: g.EventDate,
			Items:    []Item{},
		}, nil
	}

	if !g.Archived {
		uc.announceEventDay(ctx, g, now)
	}

	var claimableBy *uuid.UUID
	if uc.policy == HideOthersClaims {
		claimableBy = &input.ViewerID
	}
	gifts, err := uc.giftRepo.FindVisibleByGroup(ctx, g.ID, input.ViewerID, claimableBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	adapter.Shuffle(uc.random, len(gifts), func(i, j int) {
		gifts[i], gifts[j] = gifts[j], gifts[i]
	})

	items := make([]Item, len(gifts))
	for i, gift := range gifts {
		items[i] = Item{
			ID:          gift.ID,
			Name:        gift.Name,
			Description: gift.Description,
			URL:         gift.URL,
			ImageURL:    gift.ImageURL,
			CreatedAt:   gift.CreatedAt,
			ClaimStatus: gift.ClaimStatusFor(input.ViewerID),
		}
	}

	return &GetVisibleWishlistOutput{
		Open:     true,
		StartsAt: g.EventDate,
		Items:    items,
	}, nil
}

// announceEventDay notifies each member whose event-day marker this call
// manages to advance. The marker update is conditional, so each member is
// notified at most once per event date however often the list is read.
func (uc *GetVisibleWishlistUseCase) announceEventDay(ctx context.Context, g *entity.Group, now time.Time) {
	today := truncateDay(now)
	eventDay := truncateDay(g.EventDate)

	members, err := uc.groupRepo.FindMembersByGroupID(ctx, g.ID)
	if err != nil {
		slog.Error("Failed to load members for event day notification", "error", err, "group_id", g.ID)
		return
	}

	for _, m := range members {
		if m.LastEventNotificationSent != nil && !m.LastEventNotificationSent.Before(eventDay) {
			continue
		}
		changed, err := uc.groupRepo.MarkEventNotificationSent(ctx, m.ID, today, eventDay)
		if err != nil {
			slog.Error("Failed to mark event day notification", "error", err, "group_id", g.ID, "membership_id", m.ID)
			continue
		}
		if !changed || uc.notifier == nil {
			continue
		}
		uc.notifier.Notify(ctx, adapter.NotificationEvent{
			Kind:         entity.NotificationEventDay,
			TargetUserID: m.UserID,
			GroupID:      g.ID,
			GroupName:    g.Name,
		})
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
